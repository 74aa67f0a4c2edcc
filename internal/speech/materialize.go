package speech

import (
	"context"
	"fmt"

	"github.com/minhtran4102/slidecast/internal/document"
	"github.com/minhtran4102/slidecast/internal/gemini"
	"github.com/minhtran4102/slidecast/internal/logger"
)

type implMaterializer struct {
	client gemini.Client
	logger logger.Logger
}

// New creates a Materializer backed by the given backend client.
func New(client gemini.Client, log logger.Logger) Materializer {
	return &implMaterializer{client: client, logger: log}
}

// Materialize attaches decoded narration audio to every slide, in
// index order, one request at a time. A failure on any slide aborts
// the whole pass.
func (m *implMaterializer) Materialize(ctx context.Context, slides []document.Slide, progress ProgressFunc) error {
	if progress == nil {
		progress = func(slide, total int) {}
	}

	for i := range slides {
		m.logger.Info(ctx, "[%d/%d] Synthesizing narration: %s", i+1, len(slides), slides[i].Title)

		// Notes go to the backend exactly as they stand, including a
		// user-emptied string; the backend decides what that means.
		pcm, err := m.client.Synthesize(ctx, slides[i].Notes)
		if err != nil {
			return fmt.Errorf("synthesize slide %d: %w", i, err)
		}

		slides[i].AudioSamples = DecodePCM(pcm)
		m.logger.Debug(ctx, "Slide %d narration: %.2fs", i,
			document.AudioDurationSeconds(slides[i].AudioSamples))

		progress(i+1, len(slides))
	}

	return nil
}
