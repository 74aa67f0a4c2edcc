package export

import (
	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/logger"
)

type implExporter struct {
	cfg    *config.Config
	logger logger.Logger
}

// New creates an Exporter instance
func New(cfg *config.Config, log logger.Logger) Exporter {
	return &implExporter{cfg: cfg, logger: log}
}
