package crt

// noiseSeed starts every context's generator at the same point so fresh
// contexts are reproducible. Reset restores it.
const noiseSeed uint32 = 0x1D872B41

// xorshift32 advances the context's generator. The engine carries its own
// tiny generator so decode stays deterministic per context and the state
// serializes along with everything else.
func (c *CRT) xorshift32() uint32 {
	x := c.rng
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	c.rng = x
	return x
}

// noiseStep produces the next filtered noise sample for the given level,
// in signal units. White noise is halved into an accumulator, giving the
// low-frequency bias of real transmission noise rather than pure snow.
func (c *CRT) noiseStep(acc *int, level int) int {
	span := uint32(4*level + 1)
	r := int(c.xorshift32()%span) - 2*level
	*acc = (*acc + r) / 2
	return *acc
}
