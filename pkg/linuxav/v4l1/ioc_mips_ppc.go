//go:build mips || mipsle || mips64 || mips64le || ppc64 || ppc64le

package v4l1

// MIPS and PowerPC use a three-bit direction field and a 13-bit size field.
const (
	iocWrite    = 4
	iocRead     = 2
	iocDirShift = 29
)
