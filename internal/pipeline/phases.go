package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minhtran4102/slidecast/internal/compose"
	"github.com/minhtran4102/slidecast/internal/document"
	"github.com/minhtran4102/slidecast/internal/export"
	"github.com/minhtran4102/slidecast/internal/gemini"
	"github.com/minhtran4102/slidecast/internal/syncer"
)

// analyzePhase sends the document to the backend and reconciles the
// narration plan against the extracted page set.
func (p *Pipeline) analyzePhase(ctx context.Context, session document.Session, pages []document.Page) (document.Session, error) {
	req := gemini.AnalyzeRequest{PageCount: len(pages)}

	switch session.Kind {
	case document.KindPDF:
		data, err := os.ReadFile(session.Source)
		if err != nil {
			return session, fmt.Errorf("read document: %w", err)
		}
		req.Data = data
		req.MIMEType = "application/pdf"
	case document.KindPPTX:
		// The model sees the extracted slide text; the archive itself
		// is not a readable input format.
		req.ExtractedText = combinedText(pages)
	}

	analysis, err := p.client.Analyze(ctx, req)
	if err != nil {
		return session, err
	}

	session.Title = analysis.Title
	session.Summary = analysis.Summary
	session.Slides = syncer.Merge(pages, analysis)

	return session.Advance(document.PhaseAnalyzed), nil
}

func (p *Pipeline) materializePhase(ctx context.Context, session document.Session) (document.Session, error) {
	err := p.materializer.Materialize(ctx, session.Slides, func(slide, total int) {
		p.logger.Info(ctx, "Narration ready %d/%d", slide, total)
	})
	if err != nil {
		return session, fmt.Errorf("materialize: %w", err)
	}
	return session.Advance(document.PhaseMaterialized), nil
}

// composePhase records the video and, only after the artifact is fully
// assembled, commits the daily quota.
func (p *Pipeline) composePhase(ctx context.Context, session document.Session) (document.Session, error) {
	comp := p.newCompositor()
	obs := compose.Observer{
		StateChanged: func(s compose.State) {
			p.logger.Debug(ctx, "Compositor state: %s", s)
		},
		SlideStarted: func(i, total int) {
			p.logger.Info(ctx, "Recording slide %d/%d", i, total)
		},
	}

	artifact, err := comp.Compose(ctx, session.ComposeView(), export.SafeFilename(session.Title), obs)
	if err != nil {
		return session, fmt.Errorf("compose: %w", err)
	}

	if err := p.counter.Commit(); err != nil {
		p.logger.Warn(ctx, "Video completed but quota not recorded: %v", err)
	}

	session.Artifact = artifact.Path
	return session.Advance(document.PhaseComposed), nil
}

// applyNotesOverrides replaces slide narration with user-edited files
// named slide_<n>.txt (1-based). Overrides are taken verbatim, empty
// files included; synthesis is still attempted for an emptied slide.
func (p *Pipeline) applyNotesOverrides(ctx context.Context, session document.Session, dir string) document.Session {
	for i := range session.Slides {
		path := filepath.Join(dir, fmt.Sprintf("slide_%d.txt", i+1))
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				p.logger.Warn(ctx, "Notes override %s unreadable: %v", path, err)
			}
			continue
		}
		session.Slides[i].Notes = strings.TrimRight(string(data), "\n")
		p.logger.Info(ctx, "Applied notes override for slide %d", i+1)
	}
	return session
}

func combinedText(pages []document.Page) string {
	var b strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&b, "Slide %d:\n%s\n", page.Index+1, page.Text)
		if page.NoteText != "" {
			fmt.Fprintf(&b, "Speaker notes: %s\n", page.NoteText)
		}
		b.WriteString("\n")
	}
	return b.String()
}
