package export

import (
	"context"

	"github.com/minhtran4102/slidecast/internal/document"
)

// Exporter serializes the canonical slide list into downloadable
// artifacts: an annotated presentation container and a narration
// transcript document.
type Exporter interface {
	// PPTX writes a presentation with one title slide followed by one
	// slide per page, narration attached as speaker notes. Returns
	// the written file path.
	PPTX(ctx context.Context, title, summary string, slides []document.Slide) (string, error)

	// Transcript writes the narration text of all slides as a
	// formatted document. Returns the written file path.
	Transcript(ctx context.Context, title, summary string, slides []document.Slide) (string, error)
}
