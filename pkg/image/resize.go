package image

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ResizeToFit scales img down so it fits maxW × maxH pixels, keeping its
// aspect ratio. Images that already fit are returned as is; nothing is
// upscaled.
func ResizeToFit(img image.Image, maxW, maxH int) image.Image {
	if img == nil {
		return nil
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}

	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 || (srcW <= maxW && srcH <= maxH) {
		return img
	}

	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	dstW := max(1, int(math.Round(float64(srcW)*scale)))
	dstH := max(1, int(math.Round(float64(srcH)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// ImageToNRGBA converts any image to *image.NRGBA for direct pixel access.
func ImageToNRGBA(src image.Image) *image.NRGBA {
	if nrgba, ok := src.(*image.NRGBA); ok {
		return nrgba
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
