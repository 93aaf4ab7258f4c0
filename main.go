// bmp-grayscale converts a 24-bit bitmap to grayscale and reports how long
// the pixel transform took.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anas-shakeel/bmp-grayscale/internal/bmp"
	"github.com/anas-shakeel/bmp-grayscale/internal/config"
	"github.com/anas-shakeel/bmp-grayscale/internal/filters"
)

func main() {
	os.Exit(run(config.DefaultPath, os.Stdout, os.Stderr))
}

// Runs one conversion and returns the process exit code
func run(configPath string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Printf("Error: config: %v", err)
		return 1
	}

	bitmap, err := bmp.ReadBitmap(cfg.Input)
	if err != nil {
		logger.Printf("Error: decode %s: %v", cfg.Input, err)
		return 1
	}

	start := time.Now()
	if cfg.Mode == config.ModeSequential {
		filters.GrayscaleLumaSequential(bitmap)
	} else {
		filters.GrayscaleLuma(bitmap, cfg.Workers)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "Time: %d microseconds - %s\n", elapsed.Microseconds(), strings.ToUpper(cfg.Mode))

	if err := bitmap.Save(cfg.Output); err != nil {
		logger.Printf("Error: encode %s: %v", cfg.Output, err)
		return 1
	}

	return 0
}
