package extract

import (
	"context"

	"github.com/minhtran4102/slidecast/internal/document"
)

// ProgressFunc reports per-page extraction progress. UI feedback only;
// extraction semantics never depend on it.
type ProgressFunc func(page, total int)

// Extractor converts an input document into an ordered page sequence.
// Pages come back strictly in document order, indexed 0..N-1.
type Extractor interface {
	Extract(ctx context.Context, path string, kind document.Kind, progress ProgressFunc) ([]document.Page, error)
}
