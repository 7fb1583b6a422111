package v4l1

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed is wrapped by errors from operations on a closed Device.
var ErrClosed = errors.New("device closed")

// DeviceControlError reports an ioctl the driver or the OS rejected.
type DeviceControlError struct {
	Request uint
	Err     error
}

func (e *DeviceControlError) Error() string {
	return fmt.Sprintf("v4l1: %s (0x%08x): %v", RequestName(e.Request), e.Request, e.Err)
}

func (e *DeviceControlError) Unwrap() error { return e.Err }

// InvalidEncodingError reports a palette outside the known enumeration.
type InvalidEncodingError struct {
	Value string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("v4l1: %q is not a valid palette, try one of [%s]",
		e.Value, strings.Join(PaletteNames(), ", "))
}

// Valid lists the accepted palette names in enumeration order.
func (e *InvalidEncodingError) Valid() []string { return PaletteNames() }

// TypeMismatchError reports a value of the wrong type handed to a setter.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("v4l1: expected %s, got %s", e.Want, e.Got)
}

// ImmutableFieldError reports an attempt to assign a read-only field.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("v4l1: field %q is read-only", e.Field)
}

// ShortReadError reports a frame read that ended before the expected size.
type ShortReadError struct {
	Want int
	Got  int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("v4l1: short frame read: got %d of %d bytes", e.Got, e.Want)
}

func (e *ShortReadError) Unwrap() error { return io.ErrUnexpectedEOF }
