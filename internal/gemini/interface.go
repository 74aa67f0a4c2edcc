package gemini

import (
	"context"

	"github.com/minhtran4102/slidecast/internal/document"
)

// Client is the single boundary to the generative backend: document
// analysis and speech synthesis.
type Client interface {
	// Analyze sends the document and returns the narration plan. The
	// returned record set is untrusted for completeness and ordering;
	// callers reconcile it against the extracted page count.
	Analyze(ctx context.Context, req AnalyzeRequest) (*document.AnalysisResult, error)

	// Synthesize converts narration text into raw PCM samples
	// (s16le, 24 kHz, mono).
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AnalyzeRequest carries the document to the analysis boundary.
type AnalyzeRequest struct {
	Data     []byte
	MIMEType string

	// PageCount, when known, is passed to the model so it numbers
	// slides against the real page set.
	PageCount int

	// ExtractedText carries pre-extracted per-slide text for
	// container-native inputs the model cannot read natively.
	ExtractedText string
}
