package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Synthesize converts narration text into raw PCM bytes (s16le, 24 kHz
// mono). Calls are paced by the client's rate limiter; the speech
// endpoint rejects bursts well below the text-generation limits.
func (c *implClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	contents := genai.Text(text)
	genCfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: c.cfg.Speech.Voice,
				},
			},
		},
	}

	var pcm []byte
	err := c.withRetry(ctx, "synthesize", func(client *genai.Client) error {
		result, err := client.Models.GenerateContent(ctx, c.cfg.Speech.Model, contents, genCfg)
		if err != nil {
			return err
		}
		pcm = audioData(result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(pcm) == 0 {
		return nil, fmt.Errorf("synthesize: %w: no audio data in response", ErrMalformedResponse)
	}
	return pcm, nil
}

func audioData(result *genai.GenerateContentResponse) []byte {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data
		}
	}
	return nil
}
