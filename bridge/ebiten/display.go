//go:build !libretro && !ios

// Package ebiten provides an Ebiten-specific front end for the signal engine.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/user-none/entsc/adapter"
)

// Display wraps an adapter.Emulator with Ebiten rendering.
type Display struct {
	*adapter.Emulator

	offscreen *ebiten.Image           // Offscreen buffer for native resolution rendering
	drawOpts  ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewDisplay wraps the given emulator for Ebiten rendering.
func NewDisplay(e *adapter.Emulator) *Display {
	return &Display{Emulator: e}
}

// DrawToScreen renders the emulator framebuffer to the given screen,
// scaled to fit and centered.
func (d *Display) DrawToScreen(screen *ebiten.Image) {
	activeHeight := d.GetActiveHeight()

	// Create or resize offscreen buffer if needed
	if d.offscreen == nil || d.offscreen.Bounds().Dy() != activeHeight {
		d.offscreen = ebiten.NewImage(adapter.ScreenWidth, activeHeight)
	}

	// Copy the decoded raster to the offscreen buffer
	fb := d.GetFramebuffer()
	stride := d.GetFramebufferStride()
	requiredLen := stride * activeHeight
	if len(fb) < requiredLen {
		return // Buffer too small, skip frame
	}
	d.offscreen.WritePixels(fb[:requiredLen])

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, offsetX, offsetY := fitToWindow(screenW, screenH, adapter.ScreenWidth, activeHeight)

	// Draw scaled image centered in window using pre-allocated options
	d.drawOpts = ebiten.DrawImageOptions{}
	d.drawOpts.GeoM.Scale(scale, scale)
	d.drawOpts.GeoM.Translate(offsetX, offsetY)
	d.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(d.offscreen, &d.drawOpts)
}

func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Return window size so we control scaling in Draw()
	return outsideWidth, outsideHeight
}

// fitToWindow computes the uniform scale and centering offsets that fit a
// native raster inside a window while preserving aspect ratio.
func fitToWindow(windowW, windowH, nativeW, nativeH int) (scale, offsetX, offsetY float64) {
	scaleX := float64(windowW) / float64(nativeW)
	scaleY := float64(windowH) / float64(nativeH)
	scale = scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	offsetX = (float64(windowW) - float64(nativeW)*scale) / 2
	offsetY = (float64(windowH) - float64(nativeH)*scale) / 2
	return scale, offsetX, offsetY
}
