// bmp package reads and writes 24-bit uncompressed bitmaps, keeping the
// original header bytes intact.
package bmp

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	ErrFileOpen          = errors.New("could not open file")
	ErrFileWrite         = errors.New("could not write file")
	ErrHeaderRead        = errors.New("error reading bitmap header")
	ErrInvalidFormat     = errors.New("invalid file: provided file is not a bitmap")
	ErrUnsupportedFormat = errors.New("unsupported BMP format: only 24-bit uncompressed is supported")
	ErrPixelRead         = errors.New("error reading pixel data")
)

const bytesPerPixel = 3

type Pixel struct {
	B, G, R byte
}

type BitmapImage struct {
	Filename string
	Header   *Header
	Width    int
	Height   int  // Absolute height, whatever the row order
	TopDown  bool // Row 0 of Pixels is the top row of the image
	Stride   int  // Bytes per row (incl. padding to 4 bytes)
	Pixels   []byte
}

// Returns the number of bytes in a 24-bit row of the given width, padded to 4 bytes
func RowSize(width int) int {
	return (width*bytesPerPixel + 3) &^ 3
}

// Creates and returns a blank bitmap image (24 bit uncompressed)
func CreateBitmap(width, height int, topDown bool) (*BitmapImage, error) {
	if width <= 0 {
		return nil, errors.New("width must be greater than 0")
	} else if height <= 0 {
		return nil, errors.New("height must be greater than 0")
	}

	stride := RowSize(width)
	biHeight := int32(height)
	if topDown {
		biHeight = -biHeight
	}

	bfh := BitmapFileHeader{Type: [2]byte{'B', 'M'}, OffBits: FileHeaderSize + InfoHeaderV3Size}
	bih := BitmapInfoHeader{Size: InfoHeaderV3Size, Width: int32(width), Height: biHeight, Planes: 1, BitCount: 24}

	raw := make([]byte, 0, FileHeaderSize+InfoHeaderV3Size)
	raw, _ = binary.Append(raw, binary.LittleEndian, &bfh)
	raw, _ = binary.Append(raw, binary.LittleEndian, &bih)

	header := &Header{BFHeader: bfh, BIHeader: bih, raw: raw}
	header.setSizes(uint32(stride * height))

	return &BitmapImage{
		Header:  header,
		Width:   width,
		Height:  height,
		TopDown: topDown,
		Stride:  stride,
		Pixels:  make([]byte, stride*height),
	}, nil
}

// Reads a Bitmap file
func ReadBitmap(filename string) (*BitmapImage, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer file.Close()

	b, err := Decode(file)
	if err != nil {
		return nil, err
	}
	b.Filename = filename

	return b, nil
}

// Decodes a 24-bit Bitmap from r. The pixel array is read as-is (rows in
// file order, padding included).
func Decode(r io.ReadSeeker) (*BitmapImage, error) {
	// File header + the size field of the info header
	prefix := make([]byte, FileHeaderSize+4)
	if _, err := io.ReadFull(r, prefix[:FileHeaderSize]); err != nil {
		return nil, fmt.Errorf("%w: file header: %w", ErrHeaderRead, err)
	}

	if prefix[0] != 'B' || prefix[1] != 'M' {
		return nil, ErrInvalidFormat
	}

	if _, err := io.ReadFull(r, prefix[FileHeaderSize:]); err != nil {
		return nil, fmt.Errorf("%w: info header size: %w", ErrHeaderRead, err)
	}

	infoSize := binary.LittleEndian.Uint32(prefix[offInfoSize:])
	if infoSize < InfoHeaderMinSize || infoSize > InfoHeaderMaxSize {
		return nil, fmt.Errorf("%w: info header of %d bytes", ErrUnsupportedFormat, infoSize)
	}

	// READ the rest of the Info Header (DIB Header)
	raw := make([]byte, FileHeaderSize+int(infoSize))
	copy(raw, prefix)
	if _, err := io.ReadFull(r, raw[len(prefix):]); err != nil {
		return nil, fmt.Errorf("%w: info header: %w", ErrHeaderRead, err)
	}

	header, err := parseHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHeaderRead, err)
	}
	bih := header.BIHeader

	// Support only 24bit uncompressed Bitmaps
	if bih.BitCount != 24 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, bih.BitCount)
	}
	if bih.Compression != biRGB {
		return nil, fmt.Errorf("%w: compression type %d", ErrUnsupportedFormat, bih.Compression)
	}

	width := int(bih.Width)
	height := int(bih.Height)
	topDown := false // Pixels are stored TopDown?
	if height < 0 {
		topDown = true
		height = -height // Abs(olute) Height
	}
	if width <= 0 || height == 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFormat, bih.Width, bih.Height)
	}

	// The whole file must fit the 32-bit size field; bound before multiplying
	maxImageSize := int64(math.MaxUint32) - int64(header.Len())
	rowBytes := (int64(width)*bytesPerPixel + 3) &^ 3
	if rowBytes > maxImageSize || int64(height) > maxImageSize/rowBytes {
		return nil, fmt.Errorf("%w: %dx%d image is too large", ErrUnsupportedFormat, width, height)
	}
	stride := int(rowBytes)
	imageSize := rowBytes * int64(height)

	// Seek to Pixel Array (OffBits)
	if _, err := r.Seek(int64(header.BFHeader.OffBits), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPixelRead, err)
	}

	pixels := make([]byte, imageSize)
	if _, err := io.ReadFull(r, pixels); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPixelRead, err)
	}

	return &BitmapImage{
		Header:  header,
		Width:   width,
		Height:  height,
		TopDown: topDown,
		Stride:  stride,
		Pixels:  pixels,
	}, nil
}

// Size of the pixel array in bytes (incl. padding)
func (b *BitmapImage) ImageSize() int {
	return b.Stride * b.Height
}

// Returns the byte offset of a row in Pixels. Row 0 is the top of the image,
// regardless of how rows are stored in the file.
func (b *BitmapImage) RowOffset(row int) int {
	if !b.TopDown {
		row = b.Height - 1 - row
	}
	return row * b.Stride
}

// Returns the byte offset of pixel (x, y) in Pixels; (0,0) is the top-left
func (b *BitmapImage) PixelOffset(x, y int) int {
	return b.RowOffset(y) + x*bytesPerPixel
}

// Returns the pixel at (x, y); (0,0) is the top-left
func (b *BitmapImage) At(x, y int) Pixel {
	i := b.PixelOffset(x, y)
	return Pixel{B: b.Pixels[i], G: b.Pixels[i+1], R: b.Pixels[i+2]}
}

// Sets the pixel at (x, y); (0,0) is the top-left
func (b *BitmapImage) Set(x, y int, p Pixel) {
	i := b.PixelOffset(x, y)
	b.Pixels[i], b.Pixels[i+1], b.Pixels[i+2] = p.B, p.G, p.R
}

// Writes the bitmap to w: the header (with its size fields updated) and
// then the pixel array, both verbatim.
func (b *BitmapImage) Encode(w io.Writer) error {
	b.Header.setSizes(uint32(b.ImageSize()))

	if _, err := w.Write(b.Header.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(b.Pixels); err != nil {
		return err
	}

	return nil
}

// Saves the bitmap image onto local disk
func (b *BitmapImage) Save(filename string) error {
	newBitmap, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer newBitmap.Close()

	// Create a buffer (to reduce syscalls)
	w := bufio.NewWriter(newBitmap)

	if err := b.Encode(w); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	if err := newBitmap.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}

	return nil
}

// Returns a Copy of the bitmap image
func (b *BitmapImage) Copy() *BitmapImage {
	header := *b.Header
	header.raw = append([]byte(nil), b.Header.raw...)

	newBitmap := *b
	newBitmap.Header = &header
	newBitmap.Pixels = append([]byte(nil), b.Pixels...)

	return &newBitmap
}
