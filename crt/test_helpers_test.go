package crt

import "testing"

// createTestCRT creates a context with a fresh output buffer.
func createTestCRT(t *testing.T, w, h int) (*CRT, []uint32) {
	t.Helper()
	out := make([]uint32, w*h)
	c, err := New(w, h, out)
	if err != nil {
		t.Fatalf("New(%d, %d): unexpected error: %v", w, h, err)
	}
	return c, out
}

// flatImage creates a w x h source filled with one packed color.
func flatImage(w, h int, p uint32) []uint32 {
	img := make([]uint32, w*h)
	for i := range img {
		img[i] = p
	}
	return img
}

// flatSettings builds a color encode request for a flat source image with
// the canonical phase reference.
func flatSettings(w, h int, p uint32) *Settings {
	return &Settings{
		RGB:   flatImage(w, h, p),
		W:     w,
		H:     h,
		Color: true,
		CC:    PhaseRef(0),
	}
}

// barsImage creates a source of vertical bars cycling through the given
// colors, one pixel per bar.
func barsImage(w, h int, colors []uint32) []uint32 {
	img := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img[y*w+x] = colors[x%len(colors)]
		}
	}
	return img
}

// mustEncode encodes s and fails the test on error.
func mustEncode(t *testing.T, c *CRT, s *Settings) {
	t.Helper()
	if err := c.Encode(s); err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
}

// maxChannelDelta returns the largest per-channel difference between two
// packed colors.
func maxChannelDelta(a, b uint32) int {
	ar, ag, ab := unpackRGB(a)
	br, bg, bb := unpackRGB(b)
	d := absInt(ar - br)
	if v := absInt(ag - bg); v > d {
		d = v
	}
	if v := absInt(ab - bb); v > d {
		d = v
	}
	return d
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// greenVariance computes the green channel variance across the raster,
// a cheap stand-in for overall output variance in the noise tests.
func greenVariance(out []uint32) int64 {
	var sum int64
	for _, p := range out {
		_, g, _ := unpackRGB(p)
		sum += int64(g)
	}
	mean := sum / int64(len(out))

	var acc int64
	for _, p := range out {
		_, g, _ := unpackRGB(p)
		d := int64(g) - mean
		acc += d * d
	}
	return acc / int64(len(out))
}
