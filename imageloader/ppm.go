package imageloader

import (
	"errors"
	"fmt"
	"io"
)

// Netpbm PPM support. P6 (binary) is the working format of the CLI
// converter; P3 (ASCII) is accepted on input for convenience. Neither is
// covered by the standard image decoders.

var errBadPPM = errors.New("malformed ppm data")

// isPPM reports whether data starts with a PPM magic number.
func isPPM(data []byte) bool {
	return len(data) >= 2 && data[0] == 'P' && (data[1] == '3' || data[1] == '6')
}

// ppmReader walks the header tokens and samples of a PPM file.
type ppmReader struct {
	data []byte
	pos  int
}

// skipSpace advances past whitespace and # comments.
func (p *ppmReader) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '#' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return
		}
		p.pos++
	}
}

// readNumber reads one ASCII decimal token.
func (p *ppmReader) readNumber() (int, error) {
	p.skipSpace()
	start := p.pos
	v := 0
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int(c-'0')
		if v > 1<<30 {
			return 0, fmt.Errorf("%w: oversized number", errBadPPM)
		}
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("%w: expected number", errBadPPM)
	}
	return v, nil
}

// decodePPM decodes P6 or P3 data into the packed raster layout.
func decodePPM(data []byte) (*Image, error) {
	binary := data[1] == '6'
	p := &ppmReader{data: data, pos: 2}

	w, err := p.readNumber()
	if err != nil {
		return nil, err
	}
	h, err := p.readNumber()
	if err != nil {
		return nil, err
	}
	maxval, err := p.readNumber()
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || maxval <= 0 || maxval > 65535 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d maxval %d", errBadPPM, w, h, maxval)
	}

	img := &Image{
		Pix: make([]uint32, w*h),
		W:   w,
		H:   h,
	}

	if !binary {
		for i := range img.Pix {
			r, err := p.readNumber()
			if err != nil {
				return nil, err
			}
			g, err := p.readNumber()
			if err != nil {
				return nil, err
			}
			b, err := p.readNumber()
			if err != nil {
				return nil, err
			}
			img.Pix[i] = packSample(r, maxval)<<16 | packSample(g, maxval)<<8 | packSample(b, maxval)
		}
		return img, nil
	}

	// Binary raster starts after exactly one whitespace byte.
	p.pos++
	bytesPerSample := 1
	if maxval > 255 {
		bytesPerSample = 2
	}
	need := w * h * 3 * bytesPerSample
	if len(data)-p.pos < need {
		return nil, fmt.Errorf("%w: raster truncated, have %d of %d bytes",
			errBadPPM, len(data)-p.pos, need)
	}

	raster := data[p.pos:]
	for i := range img.Pix {
		var r, g, b int
		if bytesPerSample == 1 {
			r = int(raster[i*3])
			g = int(raster[i*3+1])
			b = int(raster[i*3+2])
		} else {
			// Two-byte samples are big endian.
			o := i * 6
			r = int(raster[o])<<8 | int(raster[o+1])
			g = int(raster[o+2])<<8 | int(raster[o+3])
			b = int(raster[o+4])<<8 | int(raster[o+5])
		}
		img.Pix[i] = packSample(r, maxval)<<16 | packSample(g, maxval)<<8 | packSample(b, maxval)
	}
	return img, nil
}

// packSample scales a sample from [0, maxval] to [0, 255].
func packSample(v, maxval int) uint32 {
	if v > maxval {
		v = maxval
	}
	if maxval == 255 {
		return uint32(v)
	}
	return uint32(v * 255 / maxval)
}

// WritePPM writes img as binary P6 with an 8-bit maxval.
func WritePPM(w io.Writer, img *Image) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", img.W, img.H); err != nil {
		return fmt.Errorf("failed to write ppm header: %w", err)
	}

	row := make([]byte, img.W*3)
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			p := img.Pix[y*img.W+x]
			row[x*3] = byte(p >> 16)
			row[x*3+1] = byte(p >> 8)
			row[x*3+2] = byte(p)
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write ppm raster: %w", err)
		}
	}
	return nil
}
