package v4l1

import (
	"encoding/binary"
	"testing"
	"unsafe"
)

// ioc mirrors the kernel _IOC macro for the build architecture.
func ioc(dir, typ, nr, size uintptr) uint {
	return uint(dir<<iocDirShift | size<<16 | typ<<8 | nr)
}

func TestRequestCodesMatchStructSizes(t *testing.T) {
	tests := []struct {
		name string
		got  uint
		want uint
	}{
		{"VIDIOCGCAP", VIDIOCGCAP, ioc(iocRead, 'v', 1, unsafe.Sizeof(videoCapability{}))},
		{"VIDIOCGPICT", VIDIOCGPICT, ioc(iocRead, 'v', 6, unsafe.Sizeof(videoPicture{}))},
		{"VIDIOCSPICT", VIDIOCSPICT, ioc(iocWrite, 'v', 7, unsafe.Sizeof(videoPicture{}))},
		{"VIDIOCGWIN", VIDIOCGWIN, ioc(iocRead, 'v', 9, unsafe.Sizeof(videoWindow{}))},
		{"VIDIOCSWIN", VIDIOCSWIN, ioc(iocWrite, 'v', 10, unsafe.Sizeof(videoWindow{}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = 0x%08x, want 0x%08x", tt.name, tt.got, tt.want)
			}
			if RequestName(tt.got) != tt.name {
				t.Errorf("RequestName(0x%08x) = %q, want %q", tt.got, RequestName(tt.got), tt.name)
			}
		})
	}
}

func TestCapabilityLayout(t *testing.T) {
	var c videoCapability
	offsets := []struct {
		field string
		got   uintptr
		want  uintptr
	}{
		{"name", unsafe.Offsetof(c.Name), 0},
		{"type", unsafe.Offsetof(c.Type), 32},
		{"channels", unsafe.Offsetof(c.Channels), 36},
		{"audios", unsafe.Offsetof(c.Audios), 40},
		{"maxwidth", unsafe.Offsetof(c.MaxWidth), 44},
		{"maxheight", unsafe.Offsetof(c.MaxHeight), 48},
		{"minwidth", unsafe.Offsetof(c.MinWidth), 52},
		{"minheight", unsafe.Offsetof(c.MinHeight), 56},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("offset of %s = %d, want %d", o.field, o.got, o.want)
		}
	}

	b, err := NewCapability(CapabilityFields{Name: "cap", Type: 1, MaxWidth: 0x01020304}).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(b) != 60 {
		t.Fatalf("encoded capability is %d bytes, want 60", len(b))
	}
	if got := binary.NativeEndian.Uint32(b[44:48]); got != 0x01020304 {
		t.Errorf("maxwidth at offset 44 = 0x%08x", got)
	}
	if string(b[:3]) != "cap" || b[3] != 0 {
		t.Errorf("name not NUL-terminated at offset 0: %q", b[:4])
	}
}

func TestPictureLayout(t *testing.T) {
	p := Picture{Brightness: 1, Hue: 2, Colour: 3, Contrast: 4, Whiteness: 5, Depth: 24, Palette: PaletteYUV420P}
	b, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(b) != 14 {
		t.Fatalf("encoded picture is %d bytes, want 14", len(b))
	}

	want := []uint16{1, 2, 3, 4, 5, 24, uint16(PaletteYUV420P)}
	for i, w := range want {
		if got := binary.NativeEndian.Uint16(b[i*2:]); got != w {
			t.Errorf("uint16 at offset %d = %d, want %d", i*2, got, w)
		}
	}

	var back Picture
	if err := back.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if back != p {
		t.Errorf("decoded %+v, want %+v", back, p)
	}
}

func TestWindowLayout(t *testing.T) {
	var w videoWindow
	ptr := unsafe.Sizeof(uintptr(0))

	if got := unsafe.Offsetof(w.Clips); got != 24 {
		t.Errorf("offset of clips = %d, want 24", got)
	}
	if got := unsafe.Offsetof(w.Clipcount); got != 24+ptr {
		t.Errorf("offset of clipcount = %d, want %d", got, 24+ptr)
	}

	win := Window{X: 1, Y: 2, Width: 320, Height: 240, Chromakey: 0xff00ff, Flags: 7, Clipcount: -1}
	b, err := win.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if uintptr(len(b)) != unsafe.Sizeof(w) {
		t.Fatalf("encoded window is %d bytes, want %d", len(b), unsafe.Sizeof(w))
	}
	if got := binary.NativeEndian.Uint32(b[8:]); got != 320 {
		t.Errorf("width at offset 8 = %d", got)
	}
	if got := int32(binary.NativeEndian.Uint32(b[24+ptr:])); got != -1 {
		t.Errorf("clipcount = %d, want -1", got)
	}

	var back Window
	if err := back.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if back != win {
		t.Errorf("decoded %+v, want %+v", back, win)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	var p Picture
	if err := p.UnmarshalBinary(make([]byte, 13)); err == nil {
		t.Error("expected error for 13-byte picture")
	}
	if _, err := ParseCapability(make([]byte, 64)); err == nil {
		t.Error("expected error for 64-byte capability")
	}
}
