package crt

import (
	"encoding/binary"
	"errors"
)

// State payload serialization, consumed by callers that wrap it in their
// own save-state framing. Little endian, fixed layout: raster geometry,
// knobs, burst reference, oscillator and generator state, signal flags,
// then both composite field buffers.

// StateSize returns the number of bytes Serialize writes for a context
// with the given raster geometry.
func StateSize(width, height int) int {
	return 8 + // width, height
		32 + // eight knob values
		16 + // burst reference
		8 + // roll, rng
		4 + // lastField, color, raw, progressive
		4*width*height // two field buffers of int16 samples
}

// SerializeSize returns the number of bytes Serialize writes for this
// context.
func (c *CRT) SerializeSize() int {
	return StateSize(c.width, c.height)
}

// Serialize writes the context state into data at offset and returns the
// offset just past it. data must have SerializeSize bytes of room past
// offset.
func (c *CRT) Serialize(data []byte, offset int) int {
	// Raster geometry (8 bytes)
	binary.LittleEndian.PutUint32(data[offset:], uint32(c.width))
	binary.LittleEndian.PutUint32(data[offset+4:], uint32(c.height))
	offset += 8

	// Knobs (32 bytes)
	knobs := [...]int{
		c.Brightness, c.Contrast, c.Saturation, c.BlackPoint,
		c.WhitePoint, c.HSyncSkew, c.VSyncSkew, c.RollInc,
	}
	for _, v := range knobs {
		binary.LittleEndian.PutUint32(data[offset:], uint32(int32(v)))
		offset += 4
	}

	// Burst reference (16 bytes)
	for _, v := range c.CC {
		binary.LittleEndian.PutUint32(data[offset:], uint32(int32(v)))
		offset += 4
	}

	// Phase accumulator and noise generator (8 bytes)
	binary.LittleEndian.PutUint32(data[offset:], uint32(int32(c.roll)))
	offset += 4
	binary.LittleEndian.PutUint32(data[offset:], c.rng)
	offset += 4

	// Signal flags (4 bytes)
	data[offset] = byte(c.lastField)
	offset++
	data[offset] = boolByte(c.color)
	offset++
	data[offset] = boolByte(c.raw)
	offset++
	data[offset] = boolByte(c.progressive)
	offset++

	// Composite field buffers
	for i := range c.field {
		for _, s := range c.field[i] {
			binary.LittleEndian.PutUint16(data[offset:], uint16(s))
			offset += 2
		}
	}

	return offset
}

// Deserialize restores context state from data at offset, returning the
// offset just past it. The serialized raster geometry must match this
// context's; buffers are never reallocated.
func (c *CRT) Deserialize(data []byte, offset int) (int, error) {
	if len(data)-offset < c.SerializeSize() {
		return offset, errors.New("state data too short")
	}

	// Raster geometry (8 bytes)
	w := int(binary.LittleEndian.Uint32(data[offset:]))
	h := int(binary.LittleEndian.Uint32(data[offset+4:]))
	if w != c.width || h != c.height {
		return offset, errors.New("state is for a different raster size")
	}
	offset += 8

	// Knobs (32 bytes)
	knobs := [...]*int{
		&c.Brightness, &c.Contrast, &c.Saturation, &c.BlackPoint,
		&c.WhitePoint, &c.HSyncSkew, &c.VSyncSkew, &c.RollInc,
	}
	for _, p := range knobs {
		*p = int(int32(binary.LittleEndian.Uint32(data[offset:])))
		offset += 4
	}

	// Burst reference (16 bytes)
	for i := range c.CC {
		c.CC[i] = int(int32(binary.LittleEndian.Uint32(data[offset:])))
		offset += 4
	}

	// Phase accumulator and noise generator (8 bytes)
	c.roll = int(int32(binary.LittleEndian.Uint32(data[offset:])))
	offset += 4
	c.rng = binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	// Signal flags (4 bytes)
	c.lastField = int(data[offset]) & 1
	offset++
	c.color = data[offset] != 0
	offset++
	c.raw = data[offset] != 0
	offset++
	c.progressive = data[offset] != 0
	offset++

	// Composite field buffers
	for i := range c.field {
		for j := range c.field[i] {
			c.field[i][j] = int16(binary.LittleEndian.Uint16(data[offset:]))
			offset += 2
		}
	}

	return offset, nil
}

// boolByte encodes a flag as one byte.
func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
