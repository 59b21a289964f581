package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] [path ...]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Browse a remote gallery manifest or local images, directories\n")
	fmt.Fprintf(os.Stderr, "and archives (zip/rar/7z).\n\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	urlFlag := flag.String("url", "", "gallery manifest URL")
	thumbBase := flag.String("thumb-base", "", "base URL for thumbnail renditions")
	imageBase := flag.String("image-base", "", "base URL for full-resolution images")
	orderFlag := flag.Int("order", -1, "ordering: 0=shuffled 1=natural 2=entry")
	flag.Usage = usage
	flag.Parse()

	result := loadConfig()

	// Command line overrides config
	if *urlFlag != "" {
		result.Config.ManifestURL = *urlFlag
	}
	if *thumbBase != "" {
		result.Config.ThumbnailBase = *thumbBase
	}
	if *imageBase != "" {
		result.Config.FullImageBase = *imageBase
	}
	if *orderFlag >= OrderShuffle && *orderFlag <= OrderEntry {
		result.Config.OrderMethod = *orderFlag
	}

	var source ManifestSource
	if args := flag.Args(); len(args) > 0 {
		source = NewLocalSource(args)
	} else if result.Config.ManifestURL != "" {
		source = NewRemoteSource(result.Config.ManifestURL, result.Config.ThumbnailBase, result.Config.FullImageBase)
	} else {
		usage()
		os.Exit(2)
	}

	if err := InitGraphics(); err != nil {
		log.Fatal(err)
	}

	game := newGame(result, source)

	ebiten.SetWindowTitle("rgv")
	ebiten.SetWindowSize(result.Config.WindowWidth, result.Config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if result.Config.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
