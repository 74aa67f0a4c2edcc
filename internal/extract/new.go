package extract

import (
	"context"
	"fmt"

	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/document"
	"github.com/minhtran4102/slidecast/internal/logger"
)

type implExtractor struct {
	cfg    *config.Config
	logger logger.Logger
}

// New creates an Extractor instance
func New(cfg *config.Config, log logger.Logger) Extractor {
	return &implExtractor{cfg: cfg, logger: log}
}

func (e *implExtractor) Extract(ctx context.Context, path string, kind document.Kind, progress ProgressFunc) ([]document.Page, error) {
	if progress == nil {
		progress = func(page, total int) {}
	}

	switch kind {
	case document.KindPDF:
		return e.extractPDF(ctx, path, progress)
	case document.KindPPTX:
		return e.extractPPTX(ctx, path, progress)
	default:
		return nil, fmt.Errorf("unsupported document kind: %s", kind)
	}
}
