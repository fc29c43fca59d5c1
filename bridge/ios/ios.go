// Package entscios provides a gomobile-compatible interface to the signal engine.
package entscios

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/entsc/adapter"
	"github.com/user-none/entsc/crt"
	"github.com/user-none/entsc/imageloader"
)

// ExtractResult contains the result of image extraction
type ExtractResult struct {
	Crc32    string // Hex string, e.g., "AABBCCDD"
	Filename string // Original filename from archive, e.g., "bars.ppm"
}

// currentEmu holds the engine state (unexported)
var currentEmu *emulatorState

type emulatorState struct {
	emu       *adapter.Emulator
	frameData []byte
	stateData []byte
}

// InitFromPath creates an engine instance from an image file path.
// Automatically extracts from ZIP/7z/gzip/RAR if needed.
// Returns true on success, false on error.
func InitFromPath(path string) bool {
	data, _, err := imageloader.LoadRaw(path)
	if err != nil {
		return false
	}

	e, err := adapter.NewEmulator(data, emucore.RegionNTSC)
	if err != nil {
		return false
	}
	currentEmu = &emulatorState{emu: e}
	return true
}

// Close releases the engine.
func Close() {
	currentEmu = nil
}

// RunFrame synthesizes and decodes one field of the broadcast.
func RunFrame() {
	if currentEmu == nil {
		return
	}
	currentEmu.emu.RunFrame()
	currentEmu.frameData = currentEmu.emu.GetFramebuffer()
}

// FrameWidth returns the display width (always 832).
func FrameWidth() int {
	return adapter.ScreenWidth
}

// FrameHeight returns the display height (always 624).
func FrameHeight() int {
	return adapter.ScreenHeight
}

// GetFrameData returns the RGBA frame buffer.
func GetFrameData() []byte {
	if currentEmu == nil {
		return nil
	}
	return currentEmu.frameData
}

// SetInput sets the front-panel button state as an input bitmask.
func SetInput(buttons int64) {
	if currentEmu != nil {
		currentEmu.emu.SetInput(0, uint32(buttons))
	}
}

// SetOption applies a core option change identified by key.
func SetOption(key string, value string) {
	if currentEmu != nil {
		currentEmu.emu.SetOption(key, value)
	}
}

// GetFPS returns the broadcast field rate.
func GetFPS() int {
	return crt.FieldsPerSecond
}

// SaveState creates a save state. Returns true on success.
func SaveState() bool {
	if currentEmu == nil {
		return false
	}
	data, err := currentEmu.emu.Serialize()
	if err != nil {
		currentEmu.stateData = nil
		return false
	}
	currentEmu.stateData = data
	return true
}

// StateLen returns the length of the last saved state.
func StateLen() int {
	if currentEmu == nil {
		return 0
	}
	return len(currentEmu.stateData)
}

// StateByte returns a single byte from the saved state at index i.
func StateByte(i int) int {
	if currentEmu == nil || i < 0 || i >= len(currentEmu.stateData) {
		return 0
	}
	return int(currentEmu.stateData[i])
}

// LoadState loads a save state. Returns true on success.
func LoadState(data []byte) bool {
	if currentEmu == nil {
		return false
	}
	return currentEmu.emu.Deserialize(data) == nil
}

// GetCRC32FromPath calculates the CRC32 checksum of an image file.
// Automatically extracts from ZIP/7z/gzip/RAR if needed.
// Returns -1 on error.
func GetCRC32FromPath(path string) int64 {
	data, _, err := imageloader.LoadRaw(path)
	if err != nil {
		return -1
	}

	return int64(crc32.ChecksumIEEE(data))
}

// ExtractAndStoreImage extracts an image from an archive (or copies a raw
// image), calculates its CRC32, and stores it as {destDir}/{CRC32}{ext}.
// If a file with the same CRC32 already exists, it skips writing.
// Returns the CRC32 and original filename on success, or an error.
func ExtractAndStoreImage(srcPath, destDir string) (*ExtractResult, error) {
	// Extract image data (handles zip, 7z, gzip, rar, or a raw file)
	data, filename, err := imageloader.LoadRaw(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	// Calculate CRC32
	crc := crc32.ChecksumIEEE(data)
	crcHex := fmt.Sprintf("%08X", crc)

	// Keep the original extension so the stored file loads again
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".ppm"
	}
	destPath := filepath.Join(destDir, crcHex+ext)

	// Skip write if file already exists (same CRC = same content)
	if _, err := os.Stat(destPath); err == nil {
		return &ExtractResult{Crc32: crcHex, Filename: filename}, nil
	}

	// Write extracted image
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	return &ExtractResult{Crc32: crcHex, Filename: filename}, nil
}
