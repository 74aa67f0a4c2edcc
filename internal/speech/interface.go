package speech

import (
	"context"

	"github.com/minhtran4102/slidecast/internal/document"
)

// ProgressFunc reports per-slide materialization progress. UI feedback
// only.
type ProgressFunc func(slide, total int)

// Materializer synthesizes and decodes narration audio for a slide
// sequence. Strictly sequential: the synthesis boundary is
// rate-limited and the video stage depends on deterministic ordering.
type Materializer interface {
	Materialize(ctx context.Context, slides []document.Slide, progress ProgressFunc) error
}
