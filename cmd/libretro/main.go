package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/entsc/adapter"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadL, BitID: 4},       // Black Point +
		{RetroID: libretro.JoypadL2, BitID: 5},      // Black Point -
		{RetroID: libretro.JoypadR, BitID: 6},       // White Point +
		{RetroID: libretro.JoypadR2, BitID: 7},      // White Point -
		{RetroID: libretro.JoypadY, BitID: 8},       // Saturation -
		{RetroID: libretro.JoypadX, BitID: 9},       // Saturation +
		{RetroID: libretro.JoypadL3, BitID: 10},     // Noise -
		{RetroID: libretro.JoypadR3, BitID: 11},     // Noise +
		{RetroID: libretro.JoypadSelect, BitID: 12}, // Color
		{RetroID: libretro.JoypadStart, BitID: 13},  // Knob Reset
		{RetroID: libretro.JoypadB, BitID: 14},      // Field Flip
		{RetroID: libretro.JoypadA, BitID: 15},      // Scan Mode
	})
}

func main() {}
