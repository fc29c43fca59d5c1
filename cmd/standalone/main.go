//go:build !libretro && !ios

package main

import (
	"flag"
	"log"
	"strconv"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/entsc/adapter"
)

func main() {
	imagePath := flag.String("image", "", "path to source image (opens UI if not provided)")
	noise := flag.Int("noise", -1, "noise level override (0 = clean signal)")
	flag.Parse()

	factory := &adapter.Factory{}

	if *imagePath != "" {
		options := map[string]string{}
		if *noise >= 0 {
			options["noise"] = strconv.Itoa(*noise)
		}
		if err := standalone.RunDirect(factory, *imagePath, "ntsc", options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
