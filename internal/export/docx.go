package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"

	"github.com/minhtran4102/slidecast/internal/document"
)

const (
	transcriptFont     = "Calibri"
	transcriptFontSize = 12
	headingFontSize    = 16
)

// Transcript writes the narration of all slides as a styled document:
// overall title and summary, then one heading + narration paragraph
// per slide.
func (e *implExporter) Transcript(ctx context.Context, title, summary string, slides []document.Slide) (string, error) {
	if err := os.MkdirAll(e.cfg.Paths.Output, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(e.cfg.Paths.Output, SafeFilename(title)+"_transcript.docx")

	doc, err := godocx.NewDocument()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	doc.AddParagraph("").AddText(title).Font(transcriptFont).Size(headingFontSize).Bold(true)
	if summary != "" {
		doc.AddParagraph("").AddText(summary).Font(transcriptFont).Size(transcriptFontSize)
	}
	doc.AddParagraph("")

	for _, slide := range slides {
		heading := fmt.Sprintf("%d. %s", slide.PageIndex+1, slide.Title)
		doc.AddParagraph("").AddText(heading).Font(transcriptFont).Size(transcriptFontSize + 1).Bold(true)
		doc.AddParagraph("").AddText(slide.Notes).Font(transcriptFont).Size(transcriptFontSize)
		doc.AddParagraph("")
	}

	if err := doc.SaveTo(outPath); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}

	e.logger.Info(ctx, "Exported transcript: %s", outPath)
	return outPath, nil
}
