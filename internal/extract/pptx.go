package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/minhtran4102/slidecast/internal/document"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var reSlideEntry = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type slideEntry struct {
	number int
	name   string
}

// extractPPTX opens the document as a zip archive and reconstructs one
// synthetic page per slide: extracted text runs, speaker-note runs,
// and the first embedded raster image from the slide's relationship
// manifest, composited onto a fixed-size canvas. A missing or broken
// per-slide asset degrades to a placeholder for that slide only.
func (e *implExtractor) extractPPTX(ctx context.Context, filePath string, progress ProgressFunc) ([]document.Page, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("open pptx archive: %w", err)
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	var slides []slideEntry
	for _, f := range r.File {
		files[f.Name] = f
		if m := reSlideEntry.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slideEntry{number: n, name: f.Name})
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("pptx has no slides")
	}

	// Archive entries sort lexicographically, which puts slide10
	// before slide9. Playback order is the numeric slide order.
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	pages := make([]document.Page, 0, len(slides))
	for i, entry := range slides {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := e.extractSlide(ctx, files, entry, i)
		pages = append(pages, page)
		progress(i+1, len(slides))
	}

	e.logger.Info(ctx, "Extracted %d slides from %s", len(slides), filePath)
	return pages, nil
}

func (e *implExtractor) extractSlide(ctx context.Context, files map[string]*zip.File, entry slideEntry, index int) document.Page {
	page := document.Page{Index: index}

	if data, err := readZipEntry(files, entry.name); err != nil {
		e.logger.Warn(ctx, "Slide %d unreadable: %v", entry.number, err)
	} else if text, err := textRuns(data); err != nil {
		e.logger.Warn(ctx, "Slide %d text extraction failed: %v", entry.number, err)
	} else {
		page.Text = text
	}

	notesName := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", entry.number)
	if data, err := readZipEntry(files, notesName); err == nil {
		if text, err := textRuns(data); err == nil {
			page.NoteText = text
		}
	}

	img := e.slideImage(ctx, files, entry)
	var composed image.Image
	if img != nil {
		composed = compositeLetterboxed(img)
	} else {
		title, body := splitTitle(page.Text)
		if title == "" {
			title = fmt.Sprintf("Slide %d", index+1)
		}
		composed = renderPlaceholder(title, body)
	}

	if data, err := encodeJPEG(composed, e.cfg.Extract.JPEGQuality); err != nil {
		e.logger.Warn(ctx, "Slide %d image encoding failed: %v", entry.number, err)
	} else {
		page.ImageJPEG = data
	}

	return page
}

// slideImage returns the first embedded raster image referenced by the
// slide's relationship manifest, or nil when there is none or it
// cannot be decoded.
func (e *implExtractor) slideImage(ctx context.Context, files map[string]*zip.File, entry slideEntry) image.Image {
	relsName := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", entry.number)
	data, err := readZipEntry(files, relsName)
	if err != nil {
		return nil
	}

	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		e.logger.Warn(ctx, "Slide %d relationship manifest malformed: %v", entry.number, err)
		return nil
	}

	for _, rel := range rels.Relationships {
		if !strings.HasSuffix(rel.Type, "/image") {
			continue
		}
		target := path.Clean(path.Join("ppt/slides", rel.Target))
		imgData, err := readZipEntry(files, target)
		if err != nil {
			e.logger.Warn(ctx, "Slide %d image %s unreadable: %v", entry.number, target, err)
			return nil
		}
		img, _, err := image.Decode(bytes.NewReader(imgData))
		if err != nil {
			e.logger.Warn(ctx, "Slide %d image %s undecodable: %v", entry.number, target, err)
			return nil
		}
		return img
	}
	return nil
}

type relationships struct {
	Relationships []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// textRuns concatenates the text runs (<a:t> elements) of a slide or
// notes part, one space between runs.
func textRuns(data []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if el.Name.Local == "t" {
				inText = false
				b.WriteString(" ")
			}
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}

	return strings.Join(strings.Fields(b.String()), " "), nil
}

// splitTitle treats the first sentence-sized chunk of slide text as
// the title for placeholder rendering.
func splitTitle(text string) (string, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	words := strings.Fields(text)
	n := len(words)
	if n > 8 {
		n = 8
	}
	return strings.Join(words[:n], " "), strings.Join(words[n:], " ")
}

func readZipEntry(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("entry %s not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
