package crt

// Nearest-source-pixel resampling between the caller's raster and the
// fixed signal grid, by 16-bit fixed-point stride accumulation. Destination
// position x reads source position (x*step)>>16 with step = (srcN<<16)/dstN,
// so upscaling repeats source samples and downscaling skips them; there is
// no area averaging and no floating point.

// buildScaleMap fills m with the nearest source index for each of len(m)
// destination positions along an axis of srcN source positions.
func buildScaleMap(m []int, srcN int) {
	step := (srcN << 16) / len(m)
	acc := 0
	for x := range m {
		m[x] = acc >> 16
		acc += step
	}
}

// scaleStep returns the fixed-point stride for walking srcN source
// positions across dstN destination positions. Consume it as
// (dst*step)>>16.
func scaleStep(srcN, dstN int) int {
	return (srcN << 16) / dstN
}
