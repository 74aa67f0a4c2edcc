package syncer

import (
	"testing"

	"github.com/minhtran4102/slidecast/internal/document"
)

func makePages(n int) []document.Page {
	pages := make([]document.Page, n)
	for i := range pages {
		pages[i] = document.Page{Index: i, ImageJPEG: []byte{0xFF, byte(i)}}
	}
	return pages
}

func TestMergeLength(t *testing.T) {
	tests := []struct {
		name    string
		pages   int
		records []document.NarrationRecord
	}{
		{"exact match", 3, []document.NarrationRecord{
			{PageIndex: 0, Title: "a", Notes: "na"},
			{PageIndex: 1, Title: "b", Notes: "nb"},
			{PageIndex: 2, Title: "c", Notes: "nc"},
		}},
		{"fewer records than pages", 5, []document.NarrationRecord{
			{PageIndex: 1, Title: "b", Notes: "nb"},
		}},
		{"more records than pages", 2, []document.NarrationRecord{
			{PageIndex: 0, Title: "a", Notes: "na"},
			{PageIndex: 1, Title: "b", Notes: "nb"},
			{PageIndex: 2, Title: "c", Notes: "nc"},
			{PageIndex: 7, Title: "d", Notes: "nd"},
		}},
		{"no records at all", 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slides := Merge(makePages(tt.pages), &document.AnalysisResult{Slides: tt.records})

			if len(slides) != tt.pages {
				t.Fatalf("len = %d, want %d", len(slides), tt.pages)
			}
			for i, s := range slides {
				if s.PageIndex != i {
					t.Errorf("slide %d has PageIndex %d", i, s.PageIndex)
				}
				if s.Title == "" {
					t.Errorf("slide %d has empty title", i)
				}
				if s.Notes == "" {
					t.Errorf("slide %d has empty notes", i)
				}
			}
		})
	}
}

func TestMergeOutOfRangeDropped(t *testing.T) {
	records := []document.NarrationRecord{
		{PageIndex: -1, Title: "neg", Notes: "neg"},
		{PageIndex: 0, Title: "first", Notes: "n0"},
		{PageIndex: 3, Title: "beyond", Notes: "n3"},
	}
	slides := Merge(makePages(2), &document.AnalysisResult{Slides: records})

	if len(slides) != 2 {
		t.Fatalf("len = %d, want 2", len(slides))
	}
	if slides[0].Title != "first" {
		t.Errorf("slide 0 title = %q, want %q", slides[0].Title, "first")
	}
	// The out-of-range record must not shift valid indices.
	for _, s := range slides {
		if s.Title == "neg" || s.Title == "beyond" {
			t.Errorf("out-of-range record leaked into output: %q", s.Title)
		}
	}
}

func TestMergeMissingIndexGetsPlaceholder(t *testing.T) {
	records := []document.NarrationRecord{
		{PageIndex: 0, Title: "first", Notes: "n0"},
		{PageIndex: 2, Title: "third", Notes: "n2"},
	}
	slides := Merge(makePages(3), &document.AnalysisResult{Slides: records})

	if slides[1].Title != "Slide 2" {
		t.Errorf("placeholder title = %q, want %q", slides[1].Title, "Slide 2")
	}
	if slides[1].Notes != missingNarration {
		t.Errorf("placeholder notes = %q", slides[1].Notes)
	}
}

func TestMergeDuplicateIndexFirstWins(t *testing.T) {
	records := []document.NarrationRecord{
		{PageIndex: 0, Title: "first", Notes: "n0"},
		{PageIndex: 0, Title: "second", Notes: "dup"},
	}
	slides := Merge(makePages(1), &document.AnalysisResult{Slides: records})

	if slides[0].Title != "first" {
		t.Errorf("title = %q, want first record to win", slides[0].Title)
	}
}

func TestMergeAttachesImagesByIndex(t *testing.T) {
	pages := makePages(3)
	slides := Merge(pages, nil)

	for i, s := range slides {
		if string(s.ImageJPEG) != string(pages[i].ImageJPEG) {
			t.Errorf("slide %d image not attached by index", i)
		}
	}
}
