package assets

import (
	"image"

	"golang.org/x/image/draw"
)

// Thumbnail scales img down so its longest side is maxSide pixels,
// preserving aspect ratio. Images already small enough are returned
// unchanged. Used for the clip strip previews the UI asks for.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}

	tw, th := maxSide, maxSide
	if w > h {
		th = h * maxSide / w
	} else {
		tw = w * maxSide / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
