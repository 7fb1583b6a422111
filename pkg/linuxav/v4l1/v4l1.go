// Package v4l1 provides pure Go bindings to the legacy Video4Linux (V4L1)
// control protocol for analog capture cards.
//
// This package does not use cgo. Kernel records are plain Go structs with
// fixed-width fields and explicit padding, serialized in native byte order
// and handed to the driver through ioctl.
//
// # Opening a Device
//
// Open waits a fixed settle delay after opening the node before any control
// request is issued:
//
//	dev, err := v4l1.Open("/dev/video0")
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
// # Negotiating a Palette
//
//	pic, _ := dev.QueryPicture()
//	if err := pic.SetPalette("rgb24"); err != nil {
//	    return err // *InvalidEncodingError, nothing was sent to the driver
//	}
//	pic.Depth = 24
//	err = dev.SetPicture(&pic)
//
// The driver may clamp what was set. Re-query if the effective value matters.
//
// # Capturing Frames
//
//	frame, err := dev.Capture()
//	// len(frame.Data) == width * height * depth / 8
//
// Capture reads the live window and picture on every call, so the frame size
// always follows the current geometry. A short read returns *ShortReadError
// and no data.
//
// # Concurrency
//
// A Device is not safe for concurrent use. Callers serialize access.
package v4l1
