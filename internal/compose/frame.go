package compose

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// letterbox fill for the recording surface.
var frameBackground = color.Black

// surface is the drawing surface shared by every slide of a session.
// Fixed resolution; each slide is redrawn onto it in full.
type surface struct {
	img *image.RGBA
}

func newSurface(width, height int) *surface {
	return &surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// DrawSlide paints the slide image scaled to fit, aspect-preserving
// and centered, over the letterbox fill. A slide without an image
// yields a bare background frame.
func (s *surface) DrawSlide(img image.Image) {
	b := s.img.Bounds()
	xdraw.Draw(s.img, b, image.NewUniform(frameBackground), image.Point{}, xdraw.Src)

	if img == nil {
		return
	}
	sb := img.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}

	scale := min(float64(b.Dx())/float64(sb.Dx()), float64(b.Dy())/float64(sb.Dy()))
	w := int(float64(sb.Dx()) * scale)
	h := int(float64(sb.Dy()) * scale)
	x := b.Min.X + (b.Dx()-w)/2
	y := b.Min.Y + (b.Dy()-h)/2

	xdraw.ApproxBiLinear.Scale(s.img, image.Rect(x, y, x+w, y+h), img, sb, xdraw.Over, nil)
}

// Frame exposes the current surface contents for capture.
func (s *surface) Frame() image.Image { return s.img }
