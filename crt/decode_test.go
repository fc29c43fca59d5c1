package crt

import "testing"

// roundTripTolerance is the per-channel error allowed between a flat source
// color and its decoded reproduction. Fixed-point truncation through the
// signal path costs a few counts; anything past this is a real defect.
const roundTripTolerance = 6

// TestCRT_EncodeDecode_RoundTripFlatColors verifies that flat fields of
// representative colors survive the full composite path within tolerance.
func TestCRT_EncodeDecode_RoundTripFlatColors(t *testing.T) {
	colors := []uint32{
		packRGB(0, 0, 0),
		packRGB(255, 255, 255),
		packRGB(128, 128, 128),
		packRGB(255, 0, 0),
		packRGB(0, 255, 0),
		packRGB(0, 0, 255),
		packRGB(255, 255, 0),
		packRGB(0, 255, 255),
		packRGB(255, 0, 255),
		packRGB(200, 50, 100),
		packRGB(30, 60, 90),
	}

	for _, p := range colors {
		c, out := createTestCRT(t, 32, 16)

		s := flatSettings(32, 16, p)
		s.Progressive = true
		mustEncode(t, c, s)
		c.Decode(0)

		for i, got := range out {
			if d := maxChannelDelta(got, p); d > roundTripTolerance {
				t.Errorf("color %#06x pixel %d: expected within %d, got %#06x (delta %d)",
					p, i, roundTripTolerance, got, d)
				break
			}
		}
	}
}

// TestCRT_EncodeDecode_RoundTripInterlaced verifies that two interlaced
// field passes reconstruct the full frame.
func TestCRT_EncodeDecode_RoundTripInterlaced(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)
	p := packRGB(255, 0, 0)

	s := flatSettings(32, 16, p)
	mustEncode(t, c, s)
	c.Decode(0)

	s.Field = 1
	mustEncode(t, c, s)
	c.Decode(0)

	for i, got := range out {
		if d := maxChannelDelta(got, p); d > roundTripTolerance {
			t.Errorf("pixel %d: expected within %d of %#06x, got %#06x (delta %d)",
				i, roundTripTolerance, p, got, d)
			break
		}
	}
}

// TestCRT_EncodeDecode_MonochromeInvariance verifies that a luma-only
// signal decodes to exactly gray pixels for arbitrary input, even with
// noise injected.
func TestCRT_EncodeDecode_MonochromeInvariance(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)

	// A deliberately busy source: bars plus a gradient.
	img := barsImage(32, 16, []uint32{
		packRGB(255, 0, 0), packRGB(0, 255, 0), packRGB(0, 0, 255), packRGB(255, 255, 0),
	})
	for i := range img {
		img[i] += uint32(i % 7)
	}

	s := &Settings{RGB: img, W: 32, H: 16, Color: false, Progressive: true, CC: PhaseRef(0)}
	mustEncode(t, c, s)
	c.Decode(24)

	for i, got := range out {
		r, g, b := unpackRGB(got)
		if r != g || g != b {
			t.Errorf("pixel %d: expected gray, got (%d, %d, %d)", i, r, g, b)
			break
		}
	}
}

// TestCRT_Decode_MistunedBurstRotatesColor verifies that decoding against
// a rotated phase table shifts hue instead of reproducing the source.
func TestCRT_Decode_MistunedBurstRotatesColor(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)
	p := packRGB(255, 0, 0)

	s := flatSettings(32, 16, p)
	s.Progressive = true
	mustEncode(t, c, s)

	c.Decode(0)
	center := out[8*32+16]
	if d := maxChannelDelta(center, p); d > roundTripTolerance {
		t.Fatalf("tuned decode: expected within %d of %#06x, got %#06x", roundTripTolerance, p, center)
	}

	// Mistune the decoder by a quarter cycle and run it again on the same
	// signal.
	c.CC = PhaseRef(1)
	c.Decode(0)
	center = out[8*32+16]
	if d := maxChannelDelta(center, p); d <= roundTripTolerance {
		t.Errorf("mistuned decode: expected a hue shift, got %#06x (delta %d)", center, d)
	}
}

// TestCRT_Decode_NoiseVarianceIncreases verifies that raising the noise
// level raises the output variance, and that zero noise decodes a flat
// field to a perfectly flat raster.
func TestCRT_Decode_NoiseVarianceIncreases(t *testing.T) {
	variance := func(level int) int64 {
		c, out := createTestCRT(t, 64, 32)
		s := flatSettings(64, 32, packRGB(128, 128, 128))
		s.Progressive = true
		mustEncode(t, c, s)
		c.Decode(level)
		return greenVariance(out)
	}

	v0 := variance(0)
	v16 := variance(16)
	v64 := variance(64)

	if v0 != 0 {
		t.Errorf("noise 0: expected zero variance, got %d", v0)
	}
	if v16 <= v0 {
		t.Errorf("noise 16: expected variance above %d, got %d", v0, v16)
	}
	if v64 <= v16 {
		t.Errorf("noise 64: expected variance above %d, got %d", v16, v64)
	}
}

// TestCRT_Decode_NoiseLeavesSignalPristine verifies that noise is applied
// while reading: a noisy decode followed by a clean decode reproduces the
// clean result exactly.
func TestCRT_Decode_NoiseLeavesSignalPristine(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)
	s := flatSettings(32, 16, packRGB(200, 50, 100))
	s.Progressive = true
	mustEncode(t, c, s)

	c.Decode(0)
	clean := make([]uint32, len(out))
	copy(clean, out)

	c.Decode(64)
	c.Decode(0)

	for i := range out {
		if out[i] != clean[i] {
			t.Errorf("pixel %d: expected %#06x after noisy pass, got %#06x", i, clean[i], out[i])
			break
		}
	}
}

// TestCRT_Decode_DefaultKnobsAreNeutral verifies that the default knob
// values apply no tone mapping: decoding twice is stable, moving a knob
// changes the output, and restoring the default restores it exactly.
func TestCRT_Decode_DefaultKnobsAreNeutral(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)

	img := barsImage(32, 16, []uint32{
		packRGB(255, 0, 0), packRGB(0, 255, 0), packRGB(0, 0, 255), packRGB(128, 128, 128),
	})
	s := &Settings{RGB: img, W: 32, H: 16, Color: true, Progressive: true, CC: PhaseRef(0)}
	mustEncode(t, c, s)

	c.Decode(0)
	baseline := make([]uint32, len(out))
	copy(baseline, out)

	c.Decode(0)
	for i := range out {
		if out[i] != baseline[i] {
			t.Fatalf("pixel %d: decode not stable at defaults: %#06x then %#06x",
				i, baseline[i], out[i])
		}
	}

	// Each knob moved off default must change the picture.
	knobs := []struct {
		name string
		set  func(v bool)
	}{
		{"Brightness", func(v bool) {
			if v {
				c.Brightness = 40
			} else {
				c.Brightness = DefaultBrightness
			}
		}},
		{"Contrast", func(v bool) {
			if v {
				c.Contrast = 360
			} else {
				c.Contrast = DefaultContrast
			}
		}},
		{"Saturation", func(v bool) {
			if v {
				c.Saturation = 0
			} else {
				c.Saturation = DefaultSaturation
			}
		}},
		{"BlackPoint", func(v bool) {
			if v {
				c.BlackPoint = 20
			} else {
				c.BlackPoint = DefaultBlackPoint
			}
		}},
		{"WhitePoint", func(v bool) {
			if v {
				c.WhitePoint = 50
			} else {
				c.WhitePoint = DefaultWhitePoint
			}
		}},
	}

	for _, k := range knobs {
		k.set(true)
		c.Decode(0)
		changed := false
		for i := range out {
			if out[i] != baseline[i] {
				changed = true
				break
			}
		}
		if !changed {
			t.Errorf("%s: expected knob to change the output, got the baseline", k.name)
		}

		k.set(false)
		c.Decode(0)
		for i := range out {
			if out[i] != baseline[i] {
				t.Errorf("%s: expected default to restore pixel %d to %#06x, got %#06x",
					k.name, i, baseline[i], out[i])
				break
			}
		}
	}
}

// TestCRT_Decode_ZeroSaturationDropsChroma verifies that saturation zero
// collapses a colorful signal to pure grays.
func TestCRT_Decode_ZeroSaturationDropsChroma(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)

	s := flatSettings(32, 16, packRGB(255, 0, 0))
	s.Progressive = true
	mustEncode(t, c, s)

	c.Saturation = 0
	c.Decode(0)

	for i, got := range out {
		r, g, b := unpackRGB(got)
		if r != g || g != b {
			t.Errorf("pixel %d: expected gray, got (%d, %d, %d)", i, r, g, b)
			break
		}
	}
}

// TestCRT_Reset_MakesContextsAgree verifies that a context with trashed
// knobs and advanced internal state decodes identically to a twin after
// Reset.
func TestCRT_Reset_MakesContextsAgree(t *testing.T) {
	c1, out1 := createTestCRT(t, 32, 16)
	c2, out2 := createTestCRT(t, 32, 16)

	img := barsImage(32, 16, []uint32{packRGB(255, 0, 0), packRGB(0, 0, 255)})
	s := &Settings{RGB: img, W: 32, H: 16, Color: true, Progressive: true, CC: PhaseRef(0)}
	mustEncode(t, c1, s)
	mustEncode(t, c2, s)

	// Trash c1: knobs, burst reference, phase accumulator, noise state.
	c1.Brightness = 50
	c1.Contrast = 90
	c1.Saturation = 3
	c1.BlackPoint = 15
	c1.WhitePoint = 60
	c1.HSyncSkew = 7
	c1.VSyncSkew = 2
	c1.RollInc = 2
	c1.CC = PhaseRef(3)
	c1.Decode(24)
	c1.Decode(24)

	c1.Reset()

	c1.Decode(24)
	c2.Decode(24)

	for i := range out1 {
		if out1[i] != out2[i] {
			t.Errorf("pixel %d: expected %#06x, got %#06x", i, out2[i], out1[i])
			break
		}
	}
}

// TestCRT_Decode_InterlacedRowOwnership verifies that each field pass
// writes only its own rows of the output raster.
func TestCRT_Decode_InterlacedRowOwnership(t *testing.T) {
	const sentinel = uint32(0xFFFFFFFF)
	c, out := createTestCRT(t, 16, 8)
	for i := range out {
		out[i] = sentinel
	}

	// Field 0 owns the even rows.
	mustEncode(t, c, flatSettings(16, 8, packRGB(255, 0, 0)))
	c.Decode(0)

	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			v := out[y*16+x]
			if y%2 == 0 && v == sentinel {
				t.Errorf("pixel (%d, %d): expected field 0 write, got sentinel", x, y)
				break
			}
			if y%2 == 1 && v != sentinel {
				t.Errorf("pixel (%d, %d): expected sentinel, got %#08x", x, y, v)
				break
			}
		}
	}

	// Field 1 owns the odd rows and must not disturb the even ones.
	even := make([]uint32, len(out))
	copy(even, out)

	s := flatSettings(16, 8, packRGB(0, 0, 255))
	s.Field = 1
	mustEncode(t, c, s)
	c.Decode(0)

	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			v := out[y*16+x]
			if y%2 == 0 && v != even[y*16+x] {
				t.Errorf("pixel (%d, %d): expected untouched %#08x, got %#08x",
					x, y, even[y*16+x], v)
				break
			}
			if y%2 == 1 && v == sentinel {
				t.Errorf("pixel (%d, %d): expected field 1 write, got sentinel", x, y)
				break
			}
		}
	}
}

// TestCRT_Decode_ProgressiveWritesEveryRow verifies that a progressive pass
// covers the whole raster in one call.
func TestCRT_Decode_ProgressiveWritesEveryRow(t *testing.T) {
	const sentinel = uint32(0xFFFFFFFF)
	c, out := createTestCRT(t, 16, 8)
	for i := range out {
		out[i] = sentinel
	}

	s := flatSettings(16, 8, packRGB(255, 0, 0))
	s.Progressive = true
	mustEncode(t, c, s)
	c.Decode(0)

	for i, v := range out {
		if v == sentinel {
			t.Errorf("pixel %d: expected a write, got sentinel", i)
			break
		}
	}
}

// TestCRT_Decode_HSyncSkewRotatesScanlines verifies that horizontal skew
// rotates each decoded scanline without altering its pixels.
func TestCRT_Decode_HSyncSkewRotatesScanlines(t *testing.T) {
	c, out := createTestCRT(t, 16, 8)

	img := barsImage(16, 8, []uint32{
		packRGB(255, 0, 0), packRGB(0, 255, 0), packRGB(0, 0, 255), packRGB(255, 255, 255),
	})
	s := &Settings{RGB: img, W: 16, H: 8, Color: true, Progressive: true, CC: PhaseRef(0)}
	mustEncode(t, c, s)

	c.Decode(0)
	snap := make([]uint32, len(out))
	copy(snap, out)

	c.HSyncSkew = 5
	c.Decode(0)

	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			expected := snap[y*16+(x+5)%16]
			if got := out[y*16+x]; got != expected {
				t.Errorf("pixel (%d, %d): expected %#06x, got %#06x", x, y, expected, got)
				break
			}
		}
	}
}

// TestCRT_Decode_VSyncSkewRotatesRows verifies that vertical skew rotates
// whole rows within the pass without altering their pixels.
func TestCRT_Decode_VSyncSkewRotatesRows(t *testing.T) {
	c, out := createTestCRT(t, 16, 8)

	img := make([]uint32, 16*8)
	rowColors := []uint32{
		packRGB(255, 0, 0), packRGB(0, 255, 0), packRGB(0, 0, 255), packRGB(255, 255, 255),
		packRGB(255, 255, 0), packRGB(0, 255, 255), packRGB(255, 0, 255), packRGB(128, 128, 128),
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img[y*16+x] = rowColors[y]
		}
	}

	s := &Settings{RGB: img, W: 16, H: 8, Color: true, Progressive: true, CC: PhaseRef(0)}
	mustEncode(t, c, s)

	c.Decode(0)
	snap := make([]uint32, len(out))
	copy(snap, out)

	c.VSyncSkew = 3
	c.Decode(0)

	for y := 0; y < 8; y++ {
		srcY := (y + 3) % 8
		for x := 0; x < 16; x++ {
			expected := snap[srcY*16+x]
			if got := out[y*16+x]; got != expected {
				t.Errorf("pixel (%d, %d): expected row %d value %#06x, got %#06x",
					x, y, srcY, expected, got)
				break
			}
		}
	}
}

// TestCRT_Decode_VSyncSkewStaysInField verifies that vertical skew on an
// interlaced pass only permutes rows the field owns.
func TestCRT_Decode_VSyncSkewStaysInField(t *testing.T) {
	const sentinel = uint32(0xFFFFFFFF)
	c, out := createTestCRT(t, 16, 8)
	for i := range out {
		out[i] = sentinel
	}

	mustEncode(t, c, flatSettings(16, 8, packRGB(255, 0, 0)))
	c.VSyncSkew = 3
	c.Decode(0)

	for y := 1; y < 8; y += 2 {
		for x := 0; x < 16; x++ {
			if out[y*16+x] != sentinel {
				t.Errorf("pixel (%d, %d): expected sentinel on unowned row, got %#08x",
					x, y, out[y*16+x])
				break
			}
		}
	}
}

// TestCRT_Decode_RollDriftsHue verifies the persistent phase accumulator:
// with a nonzero increment the same signal decodes to a different hue on
// the next call, and four quarter cycles come back around.
func TestCRT_Decode_RollDriftsHue(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)
	p := packRGB(255, 0, 0)

	s := flatSettings(32, 16, p)
	s.Progressive = true
	mustEncode(t, c, s)

	c.RollInc = 1

	// First decode still runs at the reference phase.
	c.Decode(0)
	first := make([]uint32, len(out))
	copy(first, out)
	if d := maxChannelDelta(first[8*32+16], p); d > roundTripTolerance {
		t.Fatalf("first decode: expected within %d of %#06x, got %#06x",
			roundTripTolerance, p, first[8*32+16])
	}

	// Second decode has drifted a quarter cycle.
	c.Decode(0)
	if d := maxChannelDelta(out[8*32+16], first[8*32+16]); d <= roundTripTolerance {
		t.Errorf("second decode: expected a hue drift, got delta %d", d)
	}

	// After four quarter cycles the accumulator is back where it started.
	c.Decode(0)
	c.Decode(0)
	c.Decode(0)
	for i := range out {
		if out[i] != first[i] {
			t.Errorf("pixel %d: expected full cycle to return %#06x, got %#06x",
				i, first[i], out[i])
			break
		}
	}
}

// TestCRT_Decode_ZeroRollIsStable verifies that the accumulator stands
// still without an increment.
func TestCRT_Decode_ZeroRollIsStable(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)

	s := flatSettings(32, 16, packRGB(255, 0, 0))
	s.Progressive = true
	mustEncode(t, c, s)

	c.Decode(0)
	first := make([]uint32, len(out))
	copy(first, out)

	c.Decode(0)
	for i := range out {
		if out[i] != first[i] {
			t.Errorf("pixel %d: expected %#06x, got %#06x", i, first[i], out[i])
			break
		}
	}
}

// TestCRT_Decode_RawModeStripesLuma verifies that skipping luma/chroma
// separation leaves the subcarrier rippling through the brightness of a
// saturated field, while a clean decode of the same signal stays flat.
func TestCRT_Decode_RawModeStripesLuma(t *testing.T) {
	spread := func(raw bool) int {
		c, out := createTestCRT(t, 32, 16)
		s := flatSettings(32, 16, packRGB(255, 0, 0))
		s.Progressive = true
		s.Raw = raw
		mustEncode(t, c, s)
		c.Decode(0)

		lo, hi := 255, 0
		for x := 0; x < 32; x++ {
			r, _, _ := unpackRGB(out[8*32+x])
			if r < lo {
				lo = r
			}
			if r > hi {
				hi = r
			}
		}
		return hi - lo
	}

	if clean := spread(false); clean > 2 {
		t.Errorf("separated decode: expected flat luma, got spread %d", clean)
	}
	if raw := spread(true); raw <= 20 {
		t.Errorf("raw decode: expected subcarrier stripes, got spread %d", raw)
	}
}

// TestCRT_Decode_RawModeGrayStaysClean verifies that raw mode costs nothing
// on a signal with no chroma to bleed.
func TestCRT_Decode_RawModeGrayStaysClean(t *testing.T) {
	c, out := createTestCRT(t, 32, 16)
	p := packRGB(128, 128, 128)

	s := flatSettings(32, 16, p)
	s.Progressive = true
	s.Raw = true
	mustEncode(t, c, s)
	c.Decode(0)

	for i, got := range out {
		if d := maxChannelDelta(got, p); d > roundTripTolerance {
			t.Errorf("pixel %d: expected within %d of %#06x, got %#06x",
				i, roundTripTolerance, p, got)
			break
		}
	}
}

// TestCRT_Decode_NarrowRaster verifies rasters narrower than one subcarrier
// cycle: chroma cannot be demodulated there, but luma still decodes.
func TestCRT_Decode_NarrowRaster(t *testing.T) {
	c, out := createTestCRT(t, 3, 4)

	s := flatSettings(3, 4, packRGB(255, 0, 0))
	s.Progressive = true
	mustEncode(t, c, s)
	c.Decode(0)

	for i, got := range out {
		r, g, b := unpackRGB(got)
		if r != g || g != b {
			t.Errorf("pixel %d: expected chroma dropped, got (%d, %d, %d)", i, r, g, b)
			break
		}
	}
}

// TestCRT_Decode_SingleRowOddField verifies that a field with no rows to
// own decodes to a no-op instead of a crash.
func TestCRT_Decode_SingleRowOddField(t *testing.T) {
	const sentinel = uint32(0xFFFFFFFF)
	c, out := createTestCRT(t, 8, 1)
	for i := range out {
		out[i] = sentinel
	}

	s := flatSettings(8, 1, packRGB(255, 0, 0))
	s.Field = 1
	mustEncode(t, c, s)
	c.Decode(0)

	for i, v := range out {
		if v != sentinel {
			t.Errorf("pixel %d: expected untouched sentinel, got %#08x", i, v)
			break
		}
	}
}
