// Filters perform color manipulation and per-pixel operations
package filters

import (
	"github.com/anas-shakeel/bmp-grayscale/internal/bmp"
	"github.com/anas-shakeel/bmp-grayscale/internal/utils"
)

// Returns the ITU-R 601-2 luma (0.299R + 0.587G + 0.114B) of a color.
// The fractional part is discarded, not rounded.
func Luma(r, g, b byte) byte {
	// Integer weights keep the truncation exact: for r=g=b=v this is v.
	return byte((299*uint32(r) + 587*uint32(g) + 114*uint32(b)) / 1000)
}

// Converts a bitmap to Black-and-White (with ITU-R 601-2 Luma Transform),
// in-place, spreading rows over workers goroutines (<= 0 means GOMAXPROCS).
func GrayscaleLuma(b *bmp.BitmapImage, workers int) {
	utils.ParallelFor(b.Height, workers, func(start, end int) {
		grayscaleRows(b, start, end)
	})
}

// Same as GrayscaleLuma, on the calling goroutine only
func GrayscaleLumaSequential(b *bmp.BitmapImage) {
	grayscaleRows(b, 0, b.Height)
}

// Applies the luma transform to rows [start, end); row 0 is the top row.
// Each pixel only reads and writes its own 3 bytes.
func grayscaleRows(b *bmp.BitmapImage, start, end int) {
	pix := b.Pixels
	for row := start; row < end; row++ {
		for col := range b.Width {
			i := b.PixelOffset(col, row)
			L := Luma(pix[i+2], pix[i+1], pix[i])

			pix[i] = L
			pix[i+1] = L
			pix[i+2] = L
		}
	}
}
