//go:build mips || mipsle || mips64 || mips64le || ppc64 || ppc64le

package v4l1

import "testing"

func TestRequestCodeValues(t *testing.T) {
	codes := map[string][2]uint{
		"VIDIOCGCAP":  {VIDIOCGCAP, 0x403c7601},
		"VIDIOCGPICT": {VIDIOCGPICT, 0x400e7606},
		"VIDIOCSPICT": {VIDIOCSPICT, 0x800e7607},
	}
	for name, c := range codes {
		if c[0] != c[1] {
			t.Errorf("%s = 0x%08x, want 0x%08x", name, c[0], c[1])
		}
	}
}
