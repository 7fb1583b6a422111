package v4l1

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Compile-time struct size assertions for the architecture-independent
// records. These will cause build failures if struct sizes drift from the
// kernel's struct video_capability and struct video_picture.
var (
	_ [60]byte = [unsafe.Sizeof(videoCapability{})]byte{}
	_ [14]byte = [unsafe.Sizeof(videoPicture{})]byte{}
)

// IOCTL constants for the architecture-independent records. The direction
// bits follow the architecture's _IOC encoding: VIDIOCGCAP is 0x803c7601 on
// amd64 and arm64 but 0x403c7601 on MIPS and PowerPC.
const (
	VIDIOCGCAP  = iocRead<<iocDirShift | 60<<16 | 0x76<<8 | 1  // _IOR('v', 1, struct video_capability)
	VIDIOCGPICT = iocRead<<iocDirShift | 14<<16 | 0x76<<8 | 6  // _IOR('v', 6, struct video_picture)
	VIDIOCSPICT = iocWrite<<iocDirShift | 14<<16 | 0x76<<8 | 7 // _IOW('v', 7, struct video_picture)
)

// videoCapability has size 60 bytes.
type videoCapability struct {
	Name      [32]byte // offset 0
	Type      int32    // offset 32
	Channels  int32    // offset 36
	Audios    int32    // offset 40
	MaxWidth  int32    // offset 44
	MaxHeight int32    // offset 48
	MinWidth  int32    // offset 52
	MinHeight int32    // offset 56
}

// videoPicture has size 14 bytes.
type videoPicture struct {
	Brightness uint16 // offset 0
	Hue        uint16 // offset 2
	Colour     uint16 // offset 4
	Contrast   uint16 // offset 6
	Whiteness  uint16 // offset 8
	Depth      uint16 // offset 10
	Palette    uint16 // offset 12
}

// encode serializes a kernel record in native byte order. Blank padding
// fields are written as zeros.
func encode(v any) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, binary.Size(v)))
	if err := binary.Write(buf, binary.NativeEndian, v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

// decode fills a kernel record from its native byte order encoding.
func decode(b []byte, v any) error {
	if want := binary.Size(v); len(b) != want {
		return fmt.Errorf("decode %T: got %d bytes, want %d", v, len(b), want)
	}
	if err := binary.Read(bytes.NewReader(b), binary.NativeEndian, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

// cstr converts a NUL-terminated byte slice to a Go string.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
