//go:build !libretro

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/entsc/adapter"
	"github.com/user-none/entsc/cli"
	"github.com/user-none/entsc/crt"
	"github.com/user-none/entsc/imageloader"
)

func main() {
	inPath := flag.String("in", "", "path to source image (ppm, png, jpg, bmp, tiff, or an archive of one)")
	outPath := flag.String("out", "out.ppm", "path to output PPM")
	width := flag.Int("width", adapter.ScreenWidth, "output width")
	height := flag.Int("height", adapter.ScreenHeight, "output height")
	noise := flag.Int("noise", 24, "noise level (0 = clean signal)")
	phase := flag.Int("phase", 0, "subcarrier phase offset (0-3)")
	mono := flag.Bool("mono", false, "transmit a monochrome signal")
	progressive := flag.Bool("progressive", false, "progressive scan instead of interlaced")
	raw := flag.Bool("raw", false, "skip luma/chroma separation on decode")
	field := flag.Int("field", 0, "starting field (0 or 1)")
	frames := flag.Int("frames", 4, "frames to accumulate on the output")
	overwrite := flag.Bool("y", false, "overwrite the output file without asking")
	interactive := flag.Bool("i", false, "show the picture in a window with the knobs on the keyboard")
	flag.Parse()

	if *inPath == "" {
		fmt.Println("Usage: entsc -in <image> [-out out.ppm] [-i] [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *interactive {
		runInteractive(*inPath, *noise, *phase, *mono, *progressive, *raw)
		return
	}

	opts := cli.ConvertOptions{
		OutWidth:    *width,
		OutHeight:   *height,
		Noise:       *noise,
		PhaseOffset: *phase,
		Mono:        *mono,
		Progressive: *progressive,
		Raw:         *raw,
		Field:       *field,
		Frames:      *frames,
		Overwrite:   *overwrite,
	}
	if err := cli.Convert(*inPath, *outPath, opts); err != nil {
		log.Fatalf("Failed to convert: %v", err)
	}
}

// runInteractive puts the decoded picture in a window with the panel
// controls bound to the keyboard.
func runInteractive(path string, noise, phase int, mono, progressive, raw bool) {
	data, _, err := imageloader.LoadRaw(path)
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}

	e, err := adapter.NewEmulator(data, emucore.RegionNTSC)
	if err != nil {
		log.Fatalf("Failed to tune in: %v", err)
	}
	e.SetOption("noise", strconv.Itoa(noise))
	e.SetOption("phase_offset", strconv.Itoa(phase))
	if mono {
		e.SetOption("color", "false")
	}
	if progressive {
		e.SetOption("progressive", "true")
	}
	if raw {
		e.SetOption("raw", "true")
	}

	ebiten.SetWindowSize(adapter.ScreenWidth, adapter.ScreenHeight)
	ebiten.SetWindowTitle("entsc")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(adapter.ScreenWidth/2, adapter.ScreenHeight/2, -1, -1)
	ebiten.SetTPS(crt.FieldsPerSecond)

	if err := ebiten.RunGame(cli.NewRunner(e)); err != nil {
		log.Fatal(err)
	}
}
