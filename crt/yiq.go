package crt

// RGB <-> YIQ conversion, fixed point with 8 fractional bits. Luma is the
// standard NTSC weighting of the channels; I and Q are two orthogonal
// weighted differences carried on the subcarrier. For 8-bit inputs Y stays
// in [0,255], I in about [-152,152] and Q in about [-134,134].

// rgbToYIQ converts 8-bit RGB channels to luma and chroma. Pure function,
// inputs are assumed in range.
func rgbToYIQ(r, g, b int) (y, i, q int) {
	y = (77*r + 151*g + 28*b) >> 8
	i = (189*(r-y) - 69*(b-y)) >> 8
	q = (123*(r-y) + 105*(b-y)) >> 8
	return
}

// yiqToRGB reconstructs 8-bit RGB channels from luma and chroma. Each
// channel clamps to [0,255]; out-of-range intermediates are expected
// whenever the knobs are pushed hard and must saturate, never wrap.
func yiqToRGB(y, i, q int) (r, g, b int) {
	r = clamp255(y + ((245*i + 159*q) >> 8))
	g = clamp255(y - ((70*i + 166*q) >> 8))
	b = clamp255(y + ((-283*i + 436*q) >> 8))
	return
}

// clamp255 limits v to the 8-bit channel range.
func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// packRGB packs 8-bit channels into a 0x00RRGGBB sample.
func packRGB(r, g, b int) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// unpackRGB splits a packed 0x00RRGGBB sample into its channels.
func unpackRGB(p uint32) (r, g, b int) {
	return int(p >> 16 & 0xFF), int(p >> 8 & 0xFF), int(p & 0xFF)
}
