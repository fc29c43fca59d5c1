package crt

// Decode demodulates the most recently encoded field into the output
// raster, perturbing the signal with pseudo-random noise of the given
// level before any filtering. When the signal is interlaced only the rows
// belonging to that field are overwritten; the other field's rows keep
// whatever a previous call left there. The persistent phase accumulator
// advances by RollInc exactly once, after all scanlines, so successive
// calls with a nonzero increment roll the recovered color.
func (c *CRT) Decode(noise int) {
	if noise < 0 {
		noise = 0
	}
	field := c.lastField
	buf := c.field[field]

	// Effective black and white signal levels under the tone knobs. The
	// luma range is floored at one so extreme knob values stay defined.
	blackSig := signalBlack + 4*c.BlackPoint
	whiteSig := signalBlack + (signalWhite-signalBlack)*c.WhitePoint/100
	lumaRange := whiteSig - blackSig
	if lumaRange < 1 {
		lumaRange = 1
	}

	y0, yStep := fieldRows(field, c.progressive)
	nRows := (c.height - y0 + yStep - 1) / yStep
	if nRows <= 0 {
		return
	}
	vSkew := wrapInt(c.VSyncSkew, nRows)
	hSkew := wrapInt(c.HSyncSkew, c.width)
	noiseAcc := 0

	for y := y0; y < c.height; y += yStep {
		// Vertical hold skew rotates which scanline lands on which output
		// row, staying within the rows this field owns.
		srcY := y
		if vSkew != 0 {
			srcY = y0 + yStep*wrapInt((y-y0)/yStep+vSkew, nRows)
		}

		c.decodeScanline(buf, srcY, field, noise, &noiseAcc, blackSig, lumaRange)

		// Horizontal hold skew rotates the sample-to-pixel mapping; the
		// signal values themselves are untouched.
		out := c.out[y*c.width : y*c.width+c.width]
		if hSkew != 0 {
			for x := range out {
				out[x] = c.rgbRow[(x+hSkew)%c.width]
			}
		} else {
			copy(out, c.rgbRow)
		}
	}

	// The receiver's oscillator drifts once per call.
	c.roll += c.RollInc
}

// decodeScanline demodulates one scanline of the field buffer into
// c.rgbRow: noise injection, luma/chroma separation, synchronous chroma
// recovery at the accumulated phase, tone mapping, color reconstruction.
func (c *CRT) decodeScanline(buf []int16, srcY, field, noise int, noiseAcc *int, blackSig, lumaRange int) {
	w := c.width
	off := srcY * w
	sig := c.sig
	lum := c.lum

	// Transmission noise perturbs the signal as read, before any
	// filtering, so it aliases into both luma and chroma. The stored
	// field buffer stays pristine.
	if noise > 0 {
		for x := 0; x < w; x++ {
			sig[x] = int(buf[off+x]) + c.noiseStep(noiseAcc, noise)
		}
	} else {
		for x := 0; x < w; x++ {
			sig[x] = int(buf[off+x])
		}
	}

	if c.raw || w < samplesPerCycle {
		// No separation: the subcarrier rides into luma as stripes and
		// fine luma detail cross-colors into chroma.
		copy(lum, sig)
	} else {
		// Box filter over one full subcarrier cycle, so modulated chroma
		// sums to zero and drops out of luma. The window reaches forward;
		// the tail samples hold the last full window.
		for x := 0; x <= w-samplesPerCycle; x++ {
			lum[x] = (sig[x] + sig[x+1] + sig[x+2] + sig[x+3]) >> 2
		}
		for x := w - samplesPerCycle + 1; x < w; x++ {
			lum[x] = lum[w-samplesPerCycle]
		}
	}

	// Demodulation phase: the encode-time base for this scanline plus the
	// persistent roll of the receiver's oscillator.
	base := (2*srcY + 2*field + c.roll) & 3
	doChroma := c.color && w >= samplesPerCycle

	for x := 0; x < w; x++ {
		// Black and white points rescale and clip luma, then brightness
		// offsets it and contrast scales it about mid-gray.
		yy := clamp255((lum[x] - blackSig) * 255 / lumaRange)
		yy += c.Brightness
		yy = (yy-128)*c.Contrast/180 + 128

		var ii, qq int
		if doChroma {
			// Synchronous demodulation: multiply the signal by the burst
			// reference over one subcarrier cycle. Proper recovery uses
			// the chroma left after luma separation; raw mode multiplies
			// the unseparated signal, so luma detail fringes into color.
			w0 := x
			if w0 > w-samplesPerCycle {
				w0 = w - samplesPerCycle
			}
			if c.raw {
				for k := 0; k < samplesPerCycle; k++ {
					p := (base + w0 + k) & 3
					ii += sig[w0+k] * c.CC[(p+1)&3]
					qq += sig[w0+k] * c.CC[p]
				}
			} else {
				for k := 0; k < samplesPerCycle; k++ {
					p := (base + w0 + k) & 3
					d := sig[w0+k] - lum[w0+k]
					ii += d * c.CC[(p+1)&3]
					qq += d * c.CC[p]
				}
			}
			ii = ii * c.Saturation / 10
			qq = qq * c.Saturation / 10
		}

		r, g, b := yiqToRGB(yy, ii, qq)
		c.rgbRow[x] = packRGB(r, g, b)
	}
}
