package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minhtran4102/slidecast/internal/compose"
	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/document"
	"github.com/minhtran4102/slidecast/internal/export"
	"github.com/minhtran4102/slidecast/internal/extract"
	"github.com/minhtran4102/slidecast/internal/gemini"
	"github.com/minhtran4102/slidecast/internal/logger"
	"github.com/minhtran4102/slidecast/internal/quota"
	"github.com/minhtran4102/slidecast/internal/speech"
)

// Options selects the artifacts of one run.
type Options struct {
	Video      bool
	PPTX       bool
	Transcript bool

	// NotesDir optionally points at user-edited narration files
	// (slide_1.txt, slide_2.txt, ...) applied after analysis and
	// before synthesis.
	NotesDir string
}

// Pipeline wires one document through extraction, analysis,
// reconciliation, materialization, composition and export. Each phase
// takes the session value and returns an advanced copy; a failed phase
// terminates the session.
type Pipeline struct {
	cfg          *config.Config
	extractor    extract.Extractor
	client       gemini.Client
	materializer speech.Materializer
	exporter     export.Exporter
	counter      *quota.Counter
	logger       logger.Logger

	// newCompositor builds a fresh compositor per run; a recording
	// session is single-use.
	newCompositor func() compose.Compositor
}

// New creates a Pipeline with production collaborators.
func New(cfg *config.Config, ext extract.Extractor, client gemini.Client,
	mat speech.Materializer, exp export.Exporter, counter *quota.Counter,
	newComp func() compose.Compositor, log logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:           cfg,
		extractor:     ext,
		client:        client,
		materializer:  mat,
		exporter:      exp,
		counter:       counter,
		newCompositor: newComp,
		logger:        log,
	}
}

// Run processes one document end to end and returns the terminal
// session state.
func (p *Pipeline) Run(ctx context.Context, path string, opts Options) (document.Session, error) {
	kind, err := KindOf(path)
	if err != nil {
		return document.Session{}, err
	}

	session := document.NewSession(path, kind)
	p.logger.Info(ctx, "Session %s: %s (%s)", session.ID, path, kind)

	session, pages, err := p.extractPhase(ctx, session)
	if err != nil {
		return session.Fail(err), err
	}

	session, err = p.analyzePhase(ctx, session, pages)
	if err != nil {
		return session.Fail(err), err
	}

	if opts.NotesDir != "" {
		session = p.applyNotesOverrides(ctx, session, opts.NotesDir)
	}

	if opts.PPTX {
		title, summary, slides := session.ExportView()
		if _, err := p.exporter.PPTX(ctx, title, summary, slides); err != nil {
			return session.Fail(err), err
		}
	}
	if opts.Transcript {
		title, summary, slides := session.ExportView()
		if _, err := p.exporter.Transcript(ctx, title, summary, slides); err != nil {
			return session.Fail(err), err
		}
	}

	if !opts.Video {
		return session, nil
	}

	remaining, err := p.counter.Remaining()
	if err != nil {
		return session.Fail(err), err
	}
	if remaining <= 0 {
		err := fmt.Errorf("daily video quota (%d) exhausted, try again tomorrow", p.cfg.Quota.DailyLimit)
		return session.Fail(err), err
	}

	session, err = p.materializePhase(ctx, session)
	if err != nil {
		return session.Fail(err), err
	}

	session, err = p.composePhase(ctx, session)
	if err != nil {
		return session.Fail(err), err
	}

	return session, nil
}

func (p *Pipeline) extractPhase(ctx context.Context, session document.Session) (document.Session, []document.Page, error) {
	pages, err := p.extractor.Extract(ctx, session.Source, session.Kind, func(page, total int) {
		p.logger.Debug(ctx, "Extracted page %d/%d", page, total)
	})
	if err != nil {
		return session, nil, fmt.Errorf("extract: %w", err)
	}
	return session.Advance(document.PhaseExtracted), pages, nil
}

// KindOf maps a file extension to the extraction strategy.
func KindOf(path string) (document.Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return document.KindPDF, nil
	case ".pptx":
		return document.KindPPTX, nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}
}
