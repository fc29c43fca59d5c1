//go:build !libretro

// Package cli provides the command-line front ends for the signal engine.
// It can render an image to a composite-decoded PPM in one shot, or put
// the picture in a window with the knobs on the keyboard.
package cli

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/user-none/entsc/adapter"
	emubridge "github.com/user-none/entsc/bridge/ebiten"
)

// keyBindings maps keyboard keys to input bitmask bits. The knob keys
// repeat while held; the mode keys act on press.
var keyBindings = []struct {
	Key ebiten.Key
	Bit int
}{
	{ebiten.KeyArrowUp, 0},    // Brightness +
	{ebiten.KeyArrowDown, 1},  // Brightness -
	{ebiten.KeyArrowLeft, 2},  // Contrast -
	{ebiten.KeyArrowRight, 3}, // Contrast +
	{ebiten.KeyQ, 4},          // Black Point +
	{ebiten.KeyA, 5},          // Black Point -
	{ebiten.KeyW, 6},          // White Point +
	{ebiten.KeyS, 7},          // White Point -
	{ebiten.Key1, 8},          // Saturation -
	{ebiten.Key2, 9},          // Saturation +
	{ebiten.Key3, 10},         // Noise -
	{ebiten.Key4, 11},         // Noise +
	{ebiten.KeySpace, 12},     // Color
	{ebiten.KeyR, 13},         // Knob Reset
	{ebiten.KeyF, 14},         // Field Flip
	{ebiten.KeyE, 15},         // Scan Mode
	{ebiten.KeyT, 16},         // Raw Decode
}

// Runner runs the signal engine in a window.
// It polls the keyboard and passes input to the emulator via SetInput().
// This follows the libretro pattern where the frontend is responsible
// for polling input.
type Runner struct {
	display *emubridge.Display
}

// NewRunner creates a new Runner wrapping the given emulator.
func NewRunner(e *adapter.Emulator) *Runner {
	return &Runner{
		display: emubridge.NewDisplay(e),
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// Poll input (runner responsibility, not emulator)
	r.display.SetInput(0, pollButtons())

	// Run one frame of the broadcast
	r.display.RunFrame()

	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	r.display.DrawToScreen(screen)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.display.Layout(outsideWidth, outsideHeight)
}

// pollButtons reads the keyboard into the input bitmask.
func pollButtons() uint32 {
	var buttons uint32
	for _, kb := range keyBindings {
		if ebiten.IsKeyPressed(kb.Key) {
			buttons |= 1 << kb.Bit
		}
	}
	return buttons
}
