//go:build !libretro

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/user-none/entsc/crt"
	"github.com/user-none/entsc/imageloader"
)

// ConvertOptions control a one-shot render to disk.
type ConvertOptions struct {
	OutWidth    int
	OutHeight   int
	Noise       int
	PhaseOffset int
	Mono        bool
	Progressive bool
	Raw         bool
	Field       int
	Frames      int
	Overwrite   bool // skip the prompt when the output file exists
}

// Convert runs an image through the encode/decode path and writes the
// result as a binary PPM.
func Convert(inPath, outPath string, opts ConvertOptions) error {
	img, _, err := imageloader.LoadImage(inPath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	if !opts.Overwrite && fileExists(outPath) && !promptOverwrite(outPath) {
		return fmt.Errorf("not overwriting %s", outPath)
	}

	out := make([]uint32, opts.OutWidth*opts.OutHeight)
	tv, err := crt.New(opts.OutWidth, opts.OutHeight, out)
	if err != nil {
		return err
	}

	s := crt.Settings{
		RGB:         img.Pix,
		W:           img.W,
		H:           img.H,
		Color:       !opts.Mono,
		Field:       opts.Field & 1,
		Raw:         opts.Raw,
		Progressive: opts.Progressive,
		CC:          crt.PhaseRef(opts.PhaseOffset),
	}

	// Interlaced output needs both fields on the glass before it looks
	// like a whole picture, so accumulate a few frames.
	frames := opts.Frames
	if frames < 1 {
		frames = 1
	}
	for i := 0; i < frames; i++ {
		if err := tv.Encode(&s); err != nil {
			return err
		}
		tv.Decode(opts.Noise)
		if !s.Progressive {
			s.Field ^= 1
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	result := &imageloader.Image{Pix: out, W: opts.OutWidth, H: opts.OutHeight}
	if err := imageloader.WritePPM(w, result); err != nil {
		return err
	}
	return w.Flush()
}

// fileExists reports whether a file is already present at path.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// promptOverwrite asks on stdin before clobbering an existing file.
func promptOverwrite(path string) bool {
	fmt.Printf("%s exists, overwrite? (y/n) ", path)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}
