package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/document"
	"github.com/minhtran4102/slidecast/internal/logger"
)

func testExporter(t *testing.T) Exporter {
	t.Helper()
	cfg := &config.Config{Paths: config.PathsConfig{Output: t.TempDir()}}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return New(cfg, logger.New("error"))
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{200, 100, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testSlides(t *testing.T, n int) []document.Slide {
	slides := make([]document.Slide, n)
	for i := range slides {
		slides[i] = document.Slide{
			PageIndex: i,
			Title:     fmt.Sprintf("Topic %d", i+1),
			Notes:     fmt.Sprintf("Narration for page %d.", i+1),
			ImageJPEG: testJPEG(t),
		}
	}
	return slides
}

// collectText pulls all <a:t> run text from an OOXML part.
func collectText(t *testing.T, data []byte) string {
	t.Helper()
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if el.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}
	return b.String()
}

func TestPPTXRoundTrip(t *testing.T) {
	slides := testSlides(t, 3)
	path, err := testExporter(t).PPTX(context.Background(), "Launch Plan", "Three steps to launch.", slides)
	if err != nil {
		t.Fatalf("PPTX() error = %v", err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("artifact unreadable: %v", err)
	}
	defer r.Close()

	parts := map[string][]byte{}
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		parts[f.Name] = data
	}

	// Title slide + one content slide per input slide.
	reSlide := regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)
	count := 0
	for name := range parts {
		if reSlide.MatchString(name) {
			count++
		}
	}
	if count != len(slides)+1 {
		t.Errorf("slide count = %d, want %d", count, len(slides)+1)
	}

	// Every content slide carries its narration as a speaker note.
	for i, slide := range slides {
		name := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", i+2)
		data, ok := parts[name]
		if !ok {
			t.Fatalf("missing notes part %s", name)
		}
		if got := collectText(t, data); !strings.Contains(got, slide.Notes) {
			t.Errorf("notes %d = %q, want %q", i, got, slide.Notes)
		}
	}

	// Title slide carries the overall title.
	if got := collectText(t, parts["ppt/slides/slide1.xml"]); !strings.Contains(got, "Launch Plan") {
		t.Errorf("title slide text = %q", got)
	}

	// Required container scaffolding is present.
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/theme/theme1.xml",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	// Page images are embedded as media parts.
	if _, ok := parts["ppt/media/image1.jpeg"]; !ok {
		t.Error("missing embedded page image")
	}
}

func TestPPTXBrokenImageDoesNotAbort(t *testing.T) {
	slides := testSlides(t, 2)
	slides[1].ImageJPEG = []byte("definitely not a jpeg")

	path, err := testExporter(t).PPTX(context.Background(), "Broken", "", slides)
	if err != nil {
		t.Fatalf("PPTX() error = %v", err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	// The broken slide is exported with a visible error body.
	for _, f := range r.File {
		if f.Name != "ppt/slides/slide3.xml" {
			continue
		}
		rc, _ := f.Open()
		data, _ := io.ReadAll(rc)
		rc.Close()
		if !strings.Contains(collectText(t, data), "could not be embedded") {
			t.Error("broken slide missing error placeholder body")
		}
		return
	}
	t.Error("broken slide not exported at all")
}

func TestPPTXSlideWithoutImage(t *testing.T) {
	slides := testSlides(t, 1)
	slides[0].ImageJPEG = nil

	path, err := testExporter(t).PPTX(context.Background(), "No Images", "", slides)
	if err != nil {
		t.Fatalf("PPTX() error = %v", err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == "ppt/slides/slide2.xml" {
			rc, _ := f.Open()
			data, _ := io.ReadAll(rc)
			rc.Close()
			if !strings.Contains(collectText(t, data), "Topic 1") {
				t.Error("imageless slide missing title card")
			}
			return
		}
	}
	t.Error("imageless slide not exported")
}
