package adapter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strconv"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/entsc/crt"
	"github.com/user-none/entsc/imageloader"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)

const (
	Name    = "entsc"
	Version = "1.1.0"

	// Output raster presented to the frontend, sized for a full
	// overscanned 4:3 tube.
	ScreenWidth  = 832
	ScreenHeight = 624
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "entscSState"
	stateHeaderSize = 21 // magic(11) + version(2) + imageCRC(4) + dataCRC(4)

	// Broadcast settings plus the displayed raster, so phosphor trails
	// survive a restore.
	coreStateSize = 13 + 4*ScreenWidth*ScreenHeight
)

// Emulator tunes a CRT signal engine to one source image and exposes it
// through the frontend core interface. The image plays the role of a ROM:
// fixed at creation, identified by CRC for save states.
type Emulator struct {
	tv  *crt.CRT
	img *imageloader.Image

	imageCRC uint32

	video []uint32 // packed decode raster, shared with the engine
	fb    []byte   // RGBA framebuffer handed to the frontend

	region emucore.Region

	// Broadcast settings applied on the next frame
	colorOn     bool
	progressive bool
	raw         bool
	phosphor    bool
	phaseOffset int
	field       int
	noise       int

	// Input edge detection for the mode toggle buttons
	prevButtons uint32
}

// NewEmulator creates an engine instance tuned to the given encoded image.
func NewEmulator(imageData []byte, region emucore.Region) (*Emulator, error) {
	img, err := imageloader.Decode(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	video := make([]uint32, ScreenWidth*ScreenHeight)
	tv, err := crt.New(ScreenWidth, ScreenHeight, video)
	if err != nil {
		return nil, err
	}

	return &Emulator{
		tv:       tv,
		img:      img,
		imageCRC: crc32.ChecksumIEEE(imageData),
		video:    video,
		fb:       make([]byte, ScreenWidth*ScreenHeight*4),
		region:   region,
		colorOn:  true,
		phosphor: true,
		noise:    24,
	}, nil
}

// RunFrame synthesizes and decodes one field of the broadcast.
func (e *Emulator) RunFrame() {
	if e.phosphor {
		fadePhosphors(e.video)
	}

	s := crt.Settings{
		RGB:         e.img.Pix,
		W:           e.img.W,
		H:           e.img.H,
		Color:       e.colorOn,
		Field:       e.field,
		Raw:         e.raw,
		Progressive: e.progressive,
		CC:          crt.PhaseRef(e.phaseOffset),
	}
	if err := e.tv.Encode(&s); err != nil {
		return // image geometry was validated at create time
	}
	e.tv.Decode(e.noise)

	// An interlaced broadcast alternates fields every frame.
	if !e.progressive {
		e.field ^= 1
	}

	renderRGBA(e.fb, e.video)
}

// GetFramebuffer returns the current frame as RGBA pixel data.
func (e *Emulator) GetFramebuffer() []byte {
	return e.fb
}

// GetFramebufferStride returns bytes per row in the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return ScreenWidth * 4
}

// GetActiveHeight returns the current active display height in pixels.
func (e *Emulator) GetActiveHeight() int {
	return ScreenHeight
}

// GetAudioSamples returns stereo PCM for the frame. The signal path is
// video-only, so there is never anything to play.
func (e *Emulator) GetAudioSamples() []int16 {
	return nil
}

// SetInput drives the front-panel controls from the input bitmask. The
// adjustment buttons repeat while held; the mode buttons act on press.
func (e *Emulator) SetInput(player int, buttons uint32) {
	if player != 0 {
		return
	}

	// Held knob adjustments, one unit per frame
	if buttons&(1<<emucore.ButtonUp) != 0 {
		e.tv.Brightness++
	}
	if buttons&(1<<emucore.ButtonDown) != 0 {
		e.tv.Brightness--
	}
	if buttons&(1<<emucore.ButtonLeft) != 0 {
		e.tv.Contrast--
	}
	if buttons&(1<<emucore.ButtonRight) != 0 {
		e.tv.Contrast++
	}
	if buttons&(1<<4) != 0 { // Black Point +
		e.tv.BlackPoint++
	}
	if buttons&(1<<5) != 0 { // Black Point -
		e.tv.BlackPoint--
	}
	if buttons&(1<<6) != 0 { // White Point +
		e.tv.WhitePoint++
	}
	if buttons&(1<<7) != 0 { // White Point -
		e.tv.WhitePoint--
	}
	if buttons&(1<<8) != 0 { // Saturation -
		e.tv.Saturation--
	}
	if buttons&(1<<9) != 0 { // Saturation +
		e.tv.Saturation++
	}
	if buttons&(1<<10) != 0 { // Noise -
		e.noise--
		if e.noise < 0 {
			e.noise = 0
		}
	}
	if buttons&(1<<11) != 0 { // Noise +
		e.noise++
	}

	// Mode toggles, edge detected on press (0->1)
	pressed := buttons &^ e.prevButtons
	if pressed&(1<<12) != 0 { // Color
		e.colorOn = !e.colorOn
	}
	if pressed&(1<<13) != 0 { // Knob Reset
		e.tv.Reset()
	}
	if pressed&(1<<14) != 0 { // Field Flip
		e.field ^= 1
	}
	if pressed&(1<<15) != 0 { // Scan Mode
		e.progressive = !e.progressive
	}
	if pressed&(1<<16) != 0 { // Raw Decode
		e.raw = !e.raw
	}

	e.prevButtons = buttons
}

// GetRegion returns the current video region.
func (e *Emulator) GetRegion() emucore.Region {
	return e.region
}

// SetRegion changes the video region. The composite path is NTSC no
// matter what, so this only records the frontend's choice.
func (e *Emulator) SetRegion(region emucore.Region) {
	e.region = region
}

// GetTiming returns FPS and scanline count.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       crt.FieldsPerSecond,
		Scanlines: crt.ScanlinesPerField,
	}
}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case "color":
		e.colorOn = value == "true"
	case "progressive":
		e.progressive = value == "true"
	case "raw":
		e.raw = value == "true"
	case "noise":
		if v, err := strconv.Atoi(value); err == nil && v >= 0 {
			e.noise = v
		}
	case "phase_offset":
		if v, err := strconv.Atoi(value); err == nil {
			e.phaseOffset = v & 3
		}
	case "phosphor":
		e.phosphor = value == "true"
	case "color_roll":
		if v, err := strconv.Atoi(value); err == nil && v >= 0 {
			e.tv.RollInc = v & 3
		}
	}
}

// Close releases any resources held by the engine.
func (e *Emulator) Close() {}

// fadePhosphors dims the previous raster the way lit phosphors decay,
// rather than clearing to black between fields.
func fadePhosphors(v []uint32) {
	for i, c := range v {
		c &= 0x00FFFFFF
		v[i] = ((c >> 1) & 0x7F7F7F) +
			((c >> 2) & 0x3F3F3F) +
			((c >> 3) & 0x1F1F1F) +
			((c >> 4) & 0x0F0F0F)
	}
}

// renderRGBA expands the packed raster into the RGBA layout the
// frontends consume.
func renderRGBA(fb []byte, v []uint32) {
	for i, p := range v {
		fb[i*4] = byte(p >> 16)
		fb[i*4+1] = byte(p >> 8)
		fb[i*4+2] = byte(p)
		fb[i*4+3] = 0xFF
	}
}

// =============================================================================
// Save State Serialization
// =============================================================================

// Serialize creates a save state and returns it as a byte slice.
func (e *Emulator) Serialize() ([]byte, error) {
	size := stateSize()
	data := make([]byte, size)

	// Write header
	copy(data[0:11], stateMagic)
	binary.LittleEndian.PutUint16(data[11:13], stateVersion)
	binary.LittleEndian.PutUint32(data[13:17], e.imageCRC)
	// Data CRC will be written at the end

	offset := stateHeaderSize

	// Serialize broadcast settings and the displayed raster
	offset = e.serializeCore(data, offset)

	// Serialize the signal engine
	e.tv.Serialize(data, offset)

	// Calculate and write data CRC32 (over everything after header)
	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[17:21], dataCRC)

	return data, nil
}

// Deserialize restores engine state from a save state byte slice.
// Note: Region is NOT restored - the current region setting is preserved.
func (e *Emulator) Deserialize(data []byte) error {
	if err := e.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize

	// Deserialize broadcast settings and the displayed raster
	offset = e.deserializeCore(data, offset)

	// Deserialize the signal engine
	if _, err := e.tv.Deserialize(data, offset); err != nil {
		return err
	}

	// Refresh the framebuffer so the restored picture shows before the
	// next frame runs.
	renderRGBA(e.fb, e.video)
	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (e *Emulator) VerifyState(data []byte) error {
	// Check minimum length (must be at least header + expected state data)
	expectedSize := stateSize()
	if len(data) < expectedSize {
		return errors.New("save state too short")
	}

	// Check magic bytes
	if string(data[0:11]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	// Check version
	version := binary.LittleEndian.Uint16(data[11:13])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	// Check image CRC32
	imageCRC := binary.LittleEndian.Uint32(data[13:17])
	if imageCRC != e.imageCRC {
		return errors.New("save state is for a different image")
	}

	// Check data CRC32
	expectedCRC := binary.LittleEndian.Uint32(data[17:21])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}

// serializeCore writes the broadcast settings and raster to the data buffer
func (e *Emulator) serializeCore(data []byte, offset int) int {
	binary.LittleEndian.PutUint32(data[offset:], uint32(int32(e.noise)))
	offset += 4
	binary.LittleEndian.PutUint32(data[offset:], uint32(int32(e.phaseOffset)))
	offset += 4
	data[offset] = byte(e.field & 1)
	offset++
	data[offset] = boolByte(e.colorOn)
	offset++
	data[offset] = boolByte(e.progressive)
	offset++
	data[offset] = boolByte(e.raw)
	offset++
	data[offset] = boolByte(e.phosphor)
	offset++

	for _, p := range e.video {
		binary.LittleEndian.PutUint32(data[offset:], p)
		offset += 4
	}
	return offset
}

// deserializeCore reads the broadcast settings and raster from the data buffer
func (e *Emulator) deserializeCore(data []byte, offset int) int {
	e.noise = int(int32(binary.LittleEndian.Uint32(data[offset:])))
	offset += 4
	e.phaseOffset = int(int32(binary.LittleEndian.Uint32(data[offset:]))) & 3
	offset += 4
	e.field = int(data[offset]) & 1
	offset++
	e.colorOn = data[offset] != 0
	offset++
	e.progressive = data[offset] != 0
	offset++
	e.raw = data[offset] != 0
	offset++
	e.phosphor = data[offset] != 0
	offset++

	for i := range e.video {
		e.video[i] = binary.LittleEndian.Uint32(data[offset:])
		offset += 4
	}
	return offset
}

// boolByte encodes a flag as one byte.
func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
