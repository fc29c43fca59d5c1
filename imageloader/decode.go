package imageloader

import (
	"bytes"
	"fmt"
	"image"

	// Decoders register themselves with the image package.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Decode decodes encoded image bytes into the packed raster layout. PPM is
// handled by the built-in netpbm decoder; everything else goes through the
// registered image decoders.
func Decode(data []byte) (*Image, error) {
	if isPPM(data) {
		return decodePPM(data)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return fromImage(src), nil
}

// fromImage converts a decoded image.Image to the packed raster layout.
// Alpha is dropped; the signal path has no notion of transparency.
func fromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	img := &Image{
		Pix: make([]uint32, w*h),
		W:   w,
		H:   h,
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			img.Pix[y*w+x] = (r >> 8 << 16) | (g >> 8 << 8) | (b >> 8)
		}
	}
	return img
}
