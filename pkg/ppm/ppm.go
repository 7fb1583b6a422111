// Package ppm reads and writes binary (P6) portable pixmaps with 8-bit
// samples, the format raw RGB24 frames are dumped in.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// MaxPixels bounds the images Decode accepts.
const MaxPixels = 4096 * 4096

// ErrFormat is wrapped by every decode error caused by malformed input.
var ErrFormat = errors.New("ppm: invalid format")

// Image is a packed RGB24 image, row-major, 3 bytes per pixel.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Encode writes rgb as a P6 image. rgb must hold exactly width*height*3 bytes.
func Encode(w io.Writer, width, height int, rgb []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("ppm: invalid size %dx%d", width, height)
	}
	if len(rgb) != width*height*3 {
		return fmt.Errorf("ppm: %d bytes of pixel data for %dx%d, want %d", len(rgb), width, height, width*height*3)
	}
	if _, err := fmt.Fprintf(w, "P6\n%d %d 255\n", width, height); err != nil {
		return err
	}
	_, err := w.Write(rgb)
	return err
}

// Decode reads a P6 image with a maxval of 255. Comments in the header are
// skipped.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, 2)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %w", ErrFormat, err)
	}
	if string(magic) != "P6" {
		return nil, fmt.Errorf("%w: magic %q is not P6", ErrFormat, magic)
	}

	var header [3]int
	for i := range header {
		n, err := readHeaderInt(br)
		if err != nil {
			return nil, err
		}
		header[i] = n
	}
	width, height, maxval := header[0], header[1], header[2]

	if width <= 0 || height <= 0 || width*height > MaxPixels {
		return nil, fmt.Errorf("%w: unsupported size %dx%d", ErrFormat, width, height)
	}
	if maxval != 255 {
		return nil, fmt.Errorf("%w: maxval %d, only 255 is supported", ErrFormat, maxval)
	}

	// Exactly one whitespace byte separates the header from the raster.
	if _, err := br.ReadByte(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	pix := make([]byte, width*height*3)
	if _, err := io.ReadFull(br, pix); err != nil {
		return nil, fmt.Errorf("%w: header says %dx%d but raster is short: %w", ErrFormat, width, height, err)
	}

	return &Image{Width: width, Height: height, Pix: pix}, nil
}

func readHeaderInt(br *bufio.Reader) (int, error) {
	var digits []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: truncated header: %w", ErrFormat, err)
		}
		switch {
		case b == '#':
			if _, err := br.ReadString('\n'); err != nil {
				return 0, fmt.Errorf("%w: truncated comment: %w", ErrFormat, err)
			}
		case isSpace(b):
			if len(digits) > 0 {
				if err := br.UnreadByte(); err != nil {
					return 0, err
				}
				return strconv.Atoi(string(digits))
			}
		case b >= '0' && b <= '9':
			digits = append(digits, b)
			if len(digits) > 9 {
				return 0, fmt.Errorf("%w: header value too long", ErrFormat)
			}
		default:
			return 0, fmt.Errorf("%w: unexpected byte %q in header", ErrFormat, b)
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// Crop copies the width x height region at (x, y). The region must lie
// inside the image.
func (img *Image) Crop(x, y, width, height int) ([]byte, error) {
	if x < 0 || y < 0 || width < 0 || height < 0 || x+width > img.Width || y+height > img.Height {
		return nil, fmt.Errorf("ppm: region %dx%d+%d+%d outside %dx%d image", width, height, x, y, img.Width, img.Height)
	}
	out := make([]byte, 0, width*height*3)
	stride := img.Width * 3
	for row := y; row < y+height; row++ {
		start := row*stride + x*3
		out = append(out, img.Pix[start:start+width*3]...)
	}
	return out, nil
}
