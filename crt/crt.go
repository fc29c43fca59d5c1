// Package crt emulates the analog signal path of an NTSC television in
// integer arithmetic only. An RGB raster is encoded into a synthesized
// composite signal, then decoded back into a displayable raster with the
// imperfections of real CRT/NTSC hardware: chroma/luma crosstalk,
// phase-dependent color drift, interlace, transmission noise, and tunable
// tone controls.
package crt

import (
	"errors"
	"fmt"
)

// Boundary validation errors. All buffer and geometry checks happen before
// a conversion starts; the per-sample loops never raise errors and clamp
// instead of overflowing.
var (
	ErrInvalidGeometry    = errors.New("invalid geometry")
	ErrBufferSizeMismatch = errors.New("buffer size mismatch")
)

// Knob defaults restored by Reset. Contrast and Saturation are gains with
// these values as unity, so a freshly created context applies no tone
// mapping at all.
const (
	DefaultBrightness = 0
	DefaultContrast   = 180
	DefaultSaturation = 10
	DefaultBlackPoint = 0
	DefaultWhitePoint = 100
)

// CRT is one encode/decode context: the composite field buffers, the
// persistent subcarrier phase accumulator, and the user-tunable knobs.
// All mutable state lives here; two contexts never share anything. A CRT
// must not be used from multiple goroutines concurrently.
type CRT struct {
	// Tone and sync knobs, applied during Decode. Callers may drive these
	// to any value between calls; extreme values clamp in the signal path
	// rather than crash.
	Brightness int // added to decoded luma
	Contrast   int // scales luma deviation from mid-gray, unity at 180
	Saturation int // scales recovered chroma, unity at 10
	BlackPoint int // raises the signal level decoded as black, in IRE
	WhitePoint int // scales the signal level decoded as white, percent
	HSyncSkew  int // rotates the sample-to-pixel mapping within a scanline
	VSyncSkew  int // rotates the scanline-to-row mapping within a field
	RollInc    int // quarter-cycle phase drift added per Decode call

	// CC is the decoder's burst reference. Encode records the request's
	// phase table here, the way a real decoder locks onto the transmitted
	// burst. Overwrite it between Encode and Decode to mistune the
	// decoder and produce wrong-phase color.
	CC [4]int

	width  int
	height int
	out    []uint32

	field [2][]int16 // composite samples, one buffer per interlaced field
	roll  int        // persistent phase accumulator, quarter cycles
	rng   uint32     // noise generator state

	// Nature of the signal recorded by the last Encode for the paired
	// Decode: the signal "carries" its own field parity and whether it
	// holds modulated chroma.
	lastField   int
	color       bool
	raw         bool
	progressive bool

	// Scratch reused across calls so the conversion loops allocate
	// nothing.
	colMap []int
	sig    []int
	lum    []int
	rgbRow []uint32
}

// Settings describes one encode request. It is a transient value with no
// identity of its own; the source buffer is borrowed only for the duration
// of the Encode call.
type Settings struct {
	RGB []uint32 // packed 0x00RRGGBB source pixels, row major
	W   int      // source width in pixels
	H   int      // source height in pixels

	Color       bool // false synthesizes a luma-only signal
	Field       int  // 0 or 1, selects the interlaced field
	Raw         bool // decode skips luma/chroma separation
	Progressive bool // scan every output row instead of alternate rows

	// CC is the subcarrier phase reference used for modulation: the
	// canonical quarter-cycle table rotated by the caller's phase offset.
	// Build it with PhaseRef.
	CC [4]int

	XOffset int // pans the source right, in source pixels
	YOffset int // pans the source down, in source rows
}

// phaseRef holds the quarter-cycle sine samples at 0, 90, 180 and 270
// degrees. Every subcarrier lookup in the engine is a rotation of this
// table; there is no continuous trigonometry anywhere, and the artifact
// behaviors depend on this coarse quantization.
var phaseRef = [4]int{0, 1, 0, -1}

// PhaseRef returns the phase reference table rotated by offset quarter
// cycles (90 degrees per step). Offset 0 is the canonical reference.
func PhaseRef(offset int) [4]int {
	var cc [4]int
	for i := range cc {
		cc[i] = phaseRef[(offset+i)&3]
	}
	return cc
}

// New creates a context that decodes into out, which must hold at least
// width*height packed RGB samples. The engine never reallocates or
// releases out; its lifetime belongs to the caller. Knobs start at their
// defaults and the phase accumulator at zero.
func New(width, height int, out []uint32) (*CRT, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output raster %dx%d", ErrInvalidGeometry, width, height)
	}
	if len(out) < width*height {
		return nil, fmt.Errorf("%w: output buffer holds %d samples, raster needs %d",
			ErrBufferSizeMismatch, len(out), width*height)
	}

	c := &CRT{
		width:  width,
		height: height,
		out:    out,
	}
	for i := range c.field {
		c.field[i] = make([]int16, width*height)
	}
	c.colMap = make([]int, width)
	c.sig = make([]int, width)
	c.lum = make([]int, width)
	c.rgbRow = make([]uint32, width)
	c.Reset()
	return c, nil
}

// Reset restores knob defaults, zeroes the phase accumulator and reseeds
// the noise generator. Buffers are not reallocated; the composite signal
// and the output raster keep their current contents.
func (c *CRT) Reset() {
	c.Brightness = DefaultBrightness
	c.Contrast = DefaultContrast
	c.Saturation = DefaultSaturation
	c.BlackPoint = DefaultBlackPoint
	c.WhitePoint = DefaultWhitePoint
	c.HSyncSkew = 0
	c.VSyncSkew = 0
	c.RollInc = 0
	c.CC = PhaseRef(0)
	c.roll = 0
	c.rng = noiseSeed
}

// Width returns the output raster width in samples per scanline.
func (c *CRT) Width() int {
	return c.width
}

// Height returns the output raster height in scanlines.
func (c *CRT) Height() int {
	return c.height
}

// fieldRows returns the first output row and the row stride for a pass
// over the given field. Progressive signals own every row; interlaced
// fields own alternating rows starting at their parity.
func fieldRows(field int, progressive bool) (start, step int) {
	if progressive {
		return 0, 1
	}
	return field, 2
}

// clampInt limits v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapInt maps v into [0, n) modulo n, for any sign of v.
func wrapInt(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
