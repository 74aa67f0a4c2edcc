// Package syncer reconciles the analysis response with the extracted
// page sequence. The backend is untrusted for completeness and
// ordering: its records may be missing, duplicated, or out of range.
// Reconciliation is driven by the extracted page set, never by the
// record set, so the output always has exactly one slide per page.
package syncer

import (
	"fmt"

	"github.com/minhtran4102/slidecast/internal/document"
)

// Placeholder notes substituted when the backend omitted a page.
// Never empty: materialization synthesizes whatever stands here.
const missingNarration = "No narration was generated for this page."

// Merge produces exactly len(pages) canonical slides. For each page
// index the matching narration record is adopted if present; absent
// records get a positional title and placeholder notes; records whose
// index falls outside the page range are dropped. When the same index
// appears more than once the first record wins.
func Merge(pages []document.Page, analysis *document.AnalysisResult) []document.Slide {
	byIndex := make(map[int]document.NarrationRecord, len(pages))
	if analysis != nil {
		for _, rec := range analysis.Slides {
			if rec.PageIndex < 0 || rec.PageIndex >= len(pages) {
				continue
			}
			if _, ok := byIndex[rec.PageIndex]; ok {
				continue
			}
			byIndex[rec.PageIndex] = rec
		}
	}

	slides := make([]document.Slide, len(pages))
	for i, page := range pages {
		slide := document.Slide{
			PageIndex: i,
			ImageJPEG: page.ImageJPEG,
		}

		if rec, ok := byIndex[i]; ok {
			slide.Title = rec.Title
			slide.Notes = rec.Notes
		}
		if slide.Title == "" {
			slide.Title = fmt.Sprintf("Slide %d", i+1)
		}
		if slide.Notes == "" {
			slide.Notes = missingNarration
		}

		slides[i] = slide
	}

	return slides
}
