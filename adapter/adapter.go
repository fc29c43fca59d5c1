package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/entsc/crt"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the CRT signal engine. The
// "ROM" handed to CreateEmulator is an encoded image file; the core tunes
// an NTSC television to it.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "entsc",
		ConsoleName:     "NTSC/CRT Test Pattern",
		Extensions:      []string{".ppm", ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"},
		ScreenWidth:     ScreenWidth,
		MaxScreenHeight: ScreenHeight,
		AspectRatio:     float64(ScreenWidth) / float64(ScreenHeight),
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "Black Point +", ID: 4, DefaultKey: "Q", DefaultPad: "L"},
			{Name: "Black Point -", ID: 5, DefaultKey: "A", DefaultPad: "L2"},
			{Name: "White Point +", ID: 6, DefaultKey: "W", DefaultPad: "R"},
			{Name: "White Point -", ID: 7, DefaultKey: "S", DefaultPad: "R2"},
			{Name: "Saturation -", ID: 8, DefaultKey: "1", DefaultPad: "Y"},
			{Name: "Saturation +", ID: 9, DefaultKey: "2", DefaultPad: "X"},
			{Name: "Noise -", ID: 10, DefaultKey: "3", DefaultPad: "L3"},
			{Name: "Noise +", ID: 11, DefaultKey: "4", DefaultPad: "R3"},
			{Name: "Color", ID: 12, DefaultKey: "Space", DefaultPad: "Select"},
			{Name: "Knob Reset", ID: 13, DefaultKey: "R", DefaultPad: "Start"},
			{Name: "Field Flip", ID: 14, DefaultKey: "F", DefaultPad: "B"},
			{Name: "Scan Mode", ID: 15, DefaultKey: "E", DefaultPad: "A"},
			{Name: "Raw Decode", ID: 16, DefaultKey: "T", DefaultPad: ""},
		},
		Players: 1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "color",
				Label:       "Color Burst",
				Description: "Transmit the color subcarrier; off is a luma-only broadcast",
				Type:        emucore.CoreOptionBool,
				Default:     "true",
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "progressive",
				Label:       "Progressive Scan",
				Description: "Scan every line each frame instead of alternating fields",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "raw",
				Label:       "Raw Decode",
				Description: "Skip luma/chroma separation, for content drawn with artifact colors",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "noise",
				Label:       "Transmission Noise",
				Description: "Signal noise level folded in while decoding",
				Type:        emucore.CoreOptionRange,
				Default:     "24",
				Min:         0,
				Max:         100,
				Step:        1,
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "phase_offset",
				Label:       "Burst Phase Offset",
				Description: "Rotates the subcarrier reference in 90 degree steps",
				Type:        emucore.CoreOptionSelect,
				Default:     "0",
				Values:      []string{"0", "1", "2", "3"},
				Category:    emucore.CoreOptionCategoryCore,
			},
			{
				Key:         "phosphor",
				Label:       "Phosphor Persistence",
				Description: "Fade the previous frame instead of clearing it",
				Type:        emucore.CoreOptionBool,
				Default:     "true",
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "color_roll",
				Label:       "Color Roll",
				Description: "Oscillator drift per frame; nonzero values roll the hue",
				Type:        emucore.CoreOptionRange,
				Default:     "0",
				Min:         0,
				Max:         3,
				Step:        1,
				Category:    emucore.CoreOptionCategoryCore,
			},
		},
		DataDirName:   "entsc",
		CoreName:      Name,
		CoreVersion:   Version,
		SerializeSize: stateSize(),
	}
}

// CreateEmulator creates a new engine instance tuned to the given image.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	return NewEmulator(rom, region)
}

// DetectRegion auto-detects the region from the content. The composite
// engine is NTSC no matter what the image holds.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emucore.RegionNTSC, true
}

// stateSize returns the fixed serialized state size for the raster.
func stateSize() int {
	return stateHeaderSize + coreStateSize + crt.StateSize(ScreenWidth, ScreenHeight)
}
