package extract

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/minhtran4102/slidecast/internal/document"
)

// extractPDF renders each PDF page to a JPEG at a fixed upscale
// factor. Pages are processed strictly in order; downstream indexing
// assumes page i of the result is page i of the document.
func (e *implExtractor) extractPDF(ctx context.Context, path string, progress ProgressFunc) ([]document.Page, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	dpi := 72.0 * e.cfg.Extract.PDFScale
	pages := make([]document.Page, 0, total)

	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page := document.Page{Index: i}

		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			// A single undecodable page degrades to a missing image,
			// never aborts the extraction.
			e.logger.Warn(ctx, "Failed to render page %d: %v", i+1, err)
		} else {
			data, err := encodeJPEG(img, e.cfg.Extract.JPEGQuality)
			if err != nil {
				e.logger.Warn(ctx, "Failed to encode page %d: %v", i+1, err)
			} else {
				page.ImageJPEG = data
			}
		}

		pages = append(pages, page)
		progress(i+1, total)
	}

	e.logger.Info(ctx, "Extracted %d pages from %s", total, path)
	return pages, nil
}
