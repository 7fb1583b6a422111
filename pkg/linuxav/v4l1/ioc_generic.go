//go:build !(mips || mipsle || mips64 || mips64le || ppc64 || ppc64le)

package v4l1

// _IOC direction encoding used by most architectures.
const (
	iocWrite    = 1
	iocRead     = 2
	iocDirShift = 30
)
