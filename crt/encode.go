package crt

import "fmt"

// Composite signal levels, in quarter-IRE units. Four units per IRE keeps
// fixed-point truncation inside the round-trip tolerance while the samples
// still fit comfortably in int16.
const (
	signalBlank = 0    // blanking level, 0 IRE
	signalBlack = 28   // black level with 7 IRE setup
	signalWhite = 400  // white level, 100 IRE
	signalMin   = -160 // sync tip region, -40 IRE
	signalMax   = 480  // headroom above white, 120 IRE
)

// chromaShift attenuates modulated chroma onto the luma signal. One bit
// keeps peak chroma around +/-19 IRE, inside the legal excursion for
// saturated colors.
const chromaShift = 1

// Encode synthesizes the composite signal for one field of the source
// image described by s, overwriting only that field's buffer. The other
// field's buffer is untouched, so interlaced callers accumulate a full
// frame across two calls. The request's phase table, color/raw flags and
// field parity are recorded in the context for the paired Decode.
//
// The subcarrier phase advances one quarter cycle per horizontal sample
// and alternates 180 degrees per scanline and per field. Chroma is
// modulated as Y + I*cos + Q*sin with cosine and sine looked up from the
// 4-entry reference table.
func (c *CRT) Encode(s *Settings) error {
	if s.W <= 0 || s.H <= 0 {
		return fmt.Errorf("%w: source raster %dx%d", ErrInvalidGeometry, s.W, s.H)
	}
	if len(s.RGB) < s.W*s.H {
		return fmt.Errorf("%w: source buffer holds %d samples, raster needs %d",
			ErrBufferSizeMismatch, len(s.RGB), s.W*s.H)
	}

	field := s.Field & 1
	buf := c.field[field]

	// Nearest source column per output sample, panned by XOffset with
	// edge replication.
	buildScaleMap(c.colMap, s.W)
	if s.XOffset != 0 {
		for x := range c.colMap {
			c.colMap[x] = clampInt(c.colMap[x]+s.XOffset, 0, s.W-1)
		}
	}

	rowStep := scaleStep(s.H, c.height)
	y0, yStep := fieldRows(field, s.Progressive)

	for y := y0; y < c.height; y += yStep {
		srcY := clampInt((y*rowStep)>>16+s.YOffset, 0, s.H-1)
		row := s.RGB[srcY*s.W:]
		off := y * c.width

		if !s.Color {
			// Luma-only signal: no subcarrier at all.
			for x := 0; x < c.width; x++ {
				r, g, b := unpackRGB(row[c.colMap[x]])
				yy, _, _ := rgbToYIQ(r, g, b)
				buf[off+x] = int16(signalBlack + yy*(signalWhite-signalBlack)/255)
			}
			continue
		}

		base := (2*y + 2*field) & 3
		for x := 0; x < c.width; x++ {
			r, g, b := unpackRGB(row[c.colMap[x]])
			yy, ii, qq := rgbToYIQ(r, g, b)

			sample := signalBlack + yy*(signalWhite-signalBlack)/255
			p := (base + x) & 3
			sample += (ii*s.CC[(p+1)&3] + qq*s.CC[p]) >> chromaShift

			buf[off+x] = int16(clampInt(sample, signalMin, signalMax))
		}
	}

	// The decoder locks onto the transmitted burst.
	c.CC = s.CC
	c.lastField = field
	c.color = s.Color
	c.raw = s.Raw
	c.progressive = s.Progressive
	return nil
}
