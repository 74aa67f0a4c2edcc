package gemini

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/logger"
)

type implClient struct {
	apiKeys    []string
	currentKey int
	cfg        *config.Config
	logger     logger.Logger

	// limiter paces speech synthesis calls; the backend rate-limits
	// that endpoint far more aggressively than text generation.
	limiter *rate.Limiter
}

// New creates a Client that rotates through the supplied Gemini API
// keys and paces speech requests at cfg.Speech.RequestsPerMin.
func New(apiKeys []string, cfg *config.Config, log logger.Logger) (Client, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys configured")
	}
	rpm := cfg.Speech.RequestsPerMin
	return &implClient{
		apiKeys: apiKeys,
		cfg:     cfg,
		logger:  log,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}, nil
}

func (c *implClient) rotateKey() {
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}

// withRetry runs one backend call with exponential backoff on
// transient overloads and key rotation on per-key quota exhaustion.
// Quota (all keys) and content-policy failures are terminal.
func (c *implClient) withRetry(ctx context.Context, op string, fn func(*genai.Client) error) error {
	base := time.Duration(c.cfg.Gemini.RetryBaseMs) * time.Millisecond
	quotaKeys := 0
	var lastErr error

	for attempt := 0; attempt < c.cfg.Gemini.MaxRetries; attempt++ {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.apiKeys[c.currentKey],
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("%s: create client: %w", op, err)
		}

		err = fn(client)
		if err == nil {
			return nil
		}
		lastErr = err

		switch classify(err) {
		case classQuota:
			quotaKeys++
			if quotaKeys >= len(c.apiKeys) {
				return fmt.Errorf("%s: %w: %v", op, ErrQuotaExceeded, err)
			}
			c.logger.Warn(ctx, "Key %d out of quota, rotating...", c.currentKey+1)
			c.rotateKey()
		case classBlocked:
			return fmt.Errorf("%s: %w: %v", op, ErrContentBlocked, err)
		case classTransient:
			c.logger.Warn(ctx, "%s overloaded (attempt %d/%d), backing off %s...",
				op, attempt+1, c.cfg.Gemini.MaxRetries, base<<attempt)
			c.rotateKey()
			if err := sleepCtx(ctx, base<<attempt); err != nil {
				return err
			}
		default:
			c.logger.Warn(ctx, "%s failed (attempt %d/%d): %v",
				op, attempt+1, c.cfg.Gemini.MaxRetries, err)
			if err := sleepCtx(ctx, base<<attempt); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%s: retries exhausted: %w", op, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// partsText concatenates the text parts of the first candidate.
func partsText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}
