package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/minhtran4102/slidecast/internal/document"
)

const analyzePrompt = `You are preparing a narrated walkthrough of a presentation document.

For the document provided, return JSON with this exact shape:
{
  "presentationTitle": "short overall title",
  "summary": "2-3 sentence overall summary",
  "slides": [
    {"pageIndex": 0, "title": "short slide title", "notes": "the narration script for this page"}
  ]
}

Rules:
- pageIndex is zero-based and must correspond to the page order of the document.
- The document has %d pages; produce one entry per page.
- notes must be a spoken-style narration of 2-5 sentences, self-contained, no markdown.
- Do not include any text outside the JSON object.`

// Analyze sends the document to the model in JSON mode and decodes the
// narration plan.
func (c *implClient) Analyze(ctx context.Context, req AnalyzeRequest) (*document.AnalysisResult, error) {
	prompt := fmt.Sprintf(analyzePrompt, req.PageCount)

	parts := []*genai.Part{}
	if req.ExtractedText != "" {
		// Container-native inputs: the model sees the extracted slide
		// text instead of the raw archive.
		parts = append(parts, genai.NewPartFromText("Slide text extracted from the document:\n\n"+req.ExtractedText))
	} else {
		parts = append(parts, genai.NewPartFromBytes(req.Data, req.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if c.cfg.Gemini.Temperature != 0 {
		genCfg.Temperature = genai.Ptr(c.cfg.Gemini.Temperature)
	}

	var text string
	err := c.withRetry(ctx, "analyze", func(client *genai.Client) error {
		result, err := client.Models.GenerateContent(ctx, c.cfg.Gemini.Model, contents, genCfg)
		if err != nil {
			return err
		}
		text = partsText(result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res, err := decodeAnalysis(text)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w: %v", ErrMalformedResponse, err)
	}

	c.logger.Info(ctx, "Analysis complete: %q, %d narration records", res.Title, len(res.Slides))
	return res, nil
}

func decodeAnalysis(text string) (*document.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	// Models occasionally wrap JSON in a markdown fence despite the
	// response MIME type.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var res document.AnalysisResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	if res.Title == "" {
		res.Title = "Untitled Presentation"
	}
	return &res, nil
}
