// BMP-specific structs and types
package bmp

import (
	"bytes"
	"encoding/binary"
)

const (
	FileHeaderSize    = 14 // Size of the BITMAPFILEHEADER
	InfoHeaderMinSize = 16 // Smallest info header holding width, height and bit count
	InfoHeaderV3Size  = 40 // BITMAPINFOHEADER, the first one with a SizeImage field
	InfoHeaderMaxSize = 0xffff

	biRGB = 0 // Uncompressed
)

// Byte offsets into the header blob
const (
	offFileSize  = 2
	offInfoSize  = 14
	offSizeImage = 34
)

// The BitmapFileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader

type BitmapFileHeader struct {
	Type      [2]byte // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32  // The size, in bytes, of the bitmap file.
	Reserved1 uint16  // Reserved; must be zero.
	Reserved2 uint16  // Reserved; must be zero.
	OffBits   uint32  // Bitmap File Offset (In bytes) to Pixel Arrays
}

// The BitmapInfoHeader structure contains information about the
// dimensions and color format of DIB [device-independent bitmap].

type BitmapInfoHeader struct {
	Size            uint32 // The number of bytes required by the structure.
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels (negative: top-down)
	Planes          uint16 // The number of planes for the target device.
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression
	SizeImage       uint32 // The size of the image (in bytes).
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of color indexes that are actually used by bitmap.
	ColorsImportant uint32 // Number of color indexes required for displaying the bitmap.
}

// Header is the file header and info header exactly as they were read.
// BFHeader and BIHeader are decoded views of raw; only the size fields are
// ever written back, so every other byte survives a read/write cycle.
type Header struct {
	BFHeader BitmapFileHeader
	BIHeader BitmapInfoHeader
	raw      []byte
}

// Decodes the named header fields from a header blob (file header + info header).
// The blob must be at least FileHeaderSize+InfoHeaderMinSize bytes long.
func parseHeader(raw []byte) (*Header, error) {
	h := &Header{raw: raw}

	err := binary.Read(bytes.NewReader(raw[:FileHeaderSize]), binary.LittleEndian, &h.BFHeader)
	if err != nil {
		return nil, err
	}

	// Short info headers (OS/2 2.x) decode with the missing trailing fields zeroed
	info := make([]byte, InfoHeaderV3Size)
	copy(info, raw[FileHeaderSize:])
	err = binary.Read(bytes.NewReader(info), binary.LittleEndian, &h.BIHeader)
	if err != nil {
		return nil, err
	}

	return h, nil
}

// Size of the whole header blob in bytes
func (h *Header) Len() int {
	return len(h.raw)
}

// Size of the info header (DIB header) in bytes
func (h *Header) InfoSize() int {
	return len(h.raw) - FileHeaderSize
}

// Returns the header blob. The slice is shared, not copied.
func (h *Header) Bytes() []byte {
	return h.raw
}

// Rewrites the file-size field and, if the info header has one, the
// image-size field, in both the blob and the decoded views.
func (h *Header) setSizes(imageSize uint32) {
	fileSize := uint32(len(h.raw)) + imageSize
	binary.LittleEndian.PutUint32(h.raw[offFileSize:], fileSize)
	h.BFHeader.Size = fileSize

	if h.InfoSize() >= InfoHeaderV3Size {
		binary.LittleEndian.PutUint32(h.raw[offSizeImage:], imageSize)
		h.BIHeader.SizeImage = imageSize
	}
}
