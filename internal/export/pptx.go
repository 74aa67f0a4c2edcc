package export

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minhtran4102/slidecast/internal/document"
)

// PPTX writes the annotated presentation: a title slide carrying the
// overall title and summary, then one slide per page with the page
// image full-bleed (or a placeholder card) and the narration as
// speaker notes. A slide whose image cannot be embedded gets a visible
// error body instead; export never aborts on a single slide.
func (e *implExporter) PPTX(ctx context.Context, title, summary string, slides []document.Slide) (string, error) {
	if err := os.MkdirAll(e.cfg.Paths.Output, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(e.cfg.Paths.Output, SafeFilename(title)+".pptx")

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create pptx: %w", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)

	total := len(slides) + 1 // title slide + one per page
	parts := map[string]string{
		"[Content_Types].xml":                           contentTypesXML(total),
		"_rels/.rels":                                   rootRels,
		"ppt/presentation.xml":                          presentationXML(total),
		"ppt/_rels/presentation.xml.rels":               presentationRels(total),
		"ppt/slideMasters/slideMaster1.xml":             slideMasterXML,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels":  slideMasterRels,
		"ppt/slideLayouts/slideLayout1.xml":             slideLayoutXML,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels":  slideLayoutRels,
		"ppt/theme/theme1.xml":                          themeXML,
	}

	// Slide 1: title card.
	titleBody := textBox(2, "Title", 914400, 2286000, slideCX-2*914400, 1143000, title, 4000, true) +
		textBox(3, "Summary", 914400, 3657600, slideCX-2*914400, 1714500, summary, 1800, false)
	parts["ppt/slides/slide1.xml"] = slideXML(titleBody)
	parts["ppt/slides/_rels/slide1.xml.rels"] = slideRels(1, false, 0)
	parts["ppt/notesSlides/notesSlide1.xml"] = notesSlideXML(summary)
	parts["ppt/notesSlides/_rels/notesSlide1.xml.rels"] = notesSlideRels(1)

	var media [][]byte
	for i, slide := range slides {
		num := i + 2
		body, imageData := e.slideBody(ctx, slide)

		imageIdx := 0
		if imageData != nil {
			media = append(media, imageData)
			imageIdx = len(media)
		}

		parts[fmt.Sprintf("ppt/slides/slide%d.xml", num)] = slideXML(body)
		parts[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num)] = slideRels(num, imageData != nil, imageIdx)
		parts[fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", num)] = notesSlideXML(slide.Notes)
		parts[fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", num)] = notesSlideRels(num)
	}

	for name, content := range parts {
		if err := writeZipPart(w, name, []byte(content)); err != nil {
			return "", err
		}
	}
	for i, data := range media {
		name := fmt.Sprintf("ppt/media/image%d.jpeg", i+1)
		if err := writeZipPart(w, name, data); err != nil {
			return "", err
		}
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize pptx: %w", err)
	}

	e.logger.Info(ctx, "Exported presentation: %s (%d slides)", outPath, total)
	return outPath, nil
}

// slideBody renders one content slide: the page image when it is
// usable, a title card when there never was one, and a visible error
// card when embedding fails.
func (e *implExporter) slideBody(ctx context.Context, slide document.Slide) (string, []byte) {
	if len(slide.ImageJPEG) == 0 {
		return textBox(2, "Title", 914400, 2857500, slideCX-2*914400, 1143000, slide.Title, 3200, true), nil
	}
	if _, err := slide.DecodeImage(); err != nil {
		e.logger.Warn(ctx, "Slide %d image unusable, exporting error card: %v", slide.PageIndex, err)
		return textBox(2, "Title", 914400, 2286000, slideCX-2*914400, 1143000, slide.Title, 3200, true) +
			textBox(3, "Error", 914400, 3657600, slideCX-2*914400, 914400,
				"Page image could not be embedded.", 1800, false), nil
	}
	return fullBleedPicture(2, "rId2"), slide.ImageJPEG
}

func slideRels(num int, hasImage bool, imageIdx int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	if hasImage {
		fmt.Fprintf(&b, `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.jpeg"/>`, imageIdx)
	}
	fmt.Fprintf(&b, `<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, num)
	b.WriteString(`</Relationships>`)
	return b.String()
}

func writeZipPart(w *zip.Writer, name string, data []byte) error {
	part, err := w.Create(name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}
