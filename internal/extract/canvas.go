package extract

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Synthetic page geometry for container-native slides. 4:3 content is
// letterboxed into the same 16:9 frame the compositor records.
const (
	canvasWidth  = 1280
	canvasHeight = 720
)

// Placeholder text budget: lines past the budget are dropped, not
// shrunk, so the card stays legible.
const (
	placeholderCharsPerLine = 58
	placeholderMaxLines     = 14
)

var (
	canvasBackground = color.White
	placeholderInk   = color.RGBA{40, 40, 40, 255}
)

// compositeLetterboxed scales img onto a fixed-size canvas, preserving
// aspect ratio and centering, with the background filling the bars.
func compositeLetterboxed(img image.Image) *image.RGBA {
	dst := blankCanvas()

	sb := img.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return dst
	}

	scale := min(float64(canvasWidth)/float64(sb.Dx()), float64(canvasHeight)/float64(sb.Dy()))
	w := int(float64(sb.Dx()) * scale)
	h := int(float64(sb.Dy()) * scale)
	x := (canvasWidth - w) / 2
	y := (canvasHeight - h) / 2

	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), img, sb, xdraw.Over, nil)
	return dst
}

// renderPlaceholder draws a text-summary card: one title line followed
// by wrapped body lines, clipped to the line budget.
func renderPlaceholder(title, body string) *image.RGBA {
	dst := blankCanvas()

	lines := []string{clipLine(title, placeholderCharsPerLine)}
	lines = append(lines, wrapText(body, placeholderCharsPerLine, placeholderMaxLines-1)...)

	face := basicfont.Face7x13
	lineHeight := (face.Height + 8) * 3
	y := 96

	for i, line := range lines {
		if line == "" {
			y += lineHeight
			continue
		}
		drawScaledText(dst, 72, y, line, face, placeholderInk)
		y += lineHeight
		if i == 0 {
			y += lineHeight / 2
		}
	}

	return dst
}

func blankCanvas() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(canvasBackground), image.Point{}, xdraw.Src)
	return dst
}

// drawScaledText renders text at 3x the bitmap face size so it reads
// at video resolution.
func drawScaledText(dst *image.RGBA, x, y int, text string, face font.Face, ink color.Color) {
	w := 0
	for _, r := range text {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		w += adv.Ceil()
	}
	if w == 0 {
		return
	}

	small := image.NewRGBA(image.Rect(0, 0, w+2, face.Metrics().Height.Ceil()+2))
	d := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	sb := small.Bounds()
	xdraw.NearestNeighbor.Scale(dst,
		image.Rect(x, y, x+sb.Dx()*3, y+sb.Dy()*3),
		small, sb, xdraw.Over, nil)
}

// wrapText word-wraps s into at most maxLines lines of at most width
// characters; overflow is dropped.
func wrapText(s string, width, maxLines int) []string {
	var lines []string
	var line string

	flush := func() {
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
	}

	for _, word := range splitWords(s) {
		if len(word) > width {
			word = word[:width]
		}
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			flush()
			if len(lines) >= maxLines {
				return lines
			}
			line = word
		}
	}
	flush()

	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

func splitWords(s string) []string {
	var words []string
	var w []rune
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			if len(w) > 0 {
				words = append(words, string(w))
				w = w[:0]
			}
			continue
		}
		w = append(w, r)
	}
	if len(w) > 0 {
		words = append(words, string(w))
	}
	return words
}

func clipLine(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
