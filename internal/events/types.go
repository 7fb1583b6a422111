package events

// Event type constants for kelindar/event.
const (
	TypeFrameCaptured uint32 = iota + 1
	TypeCaptureError
	TypePictureChanged
	TypeWindowChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// FrameCapturedEvent is published after every successful frame read.
type FrameCapturedEvent struct {
	DevicePath string  `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	Width      uint32  `json:"width" example:"320" doc:"Frame width in pixels"`
	Height     uint32  `json:"height" example:"240" doc:"Frame height in pixels"`
	Depth      uint16  `json:"depth" example:"24" doc:"Bits per pixel"`
	Palette    string  `json:"palette" example:"rgb24" doc:"Pixel encoding"`
	Bytes      int     `json:"bytes" example:"230400" doc:"Frame size in bytes"`
	DurationMs float64 `json:"duration_ms" example:"33.4" doc:"Time spent in the capture call"`
	Timestamp  string  `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Capture timestamp"`
}

// Type returns the event type identifier for FrameCapturedEvent.
func (e FrameCapturedEvent) Type() uint32 { return TypeFrameCaptured }

// CaptureErrorEvent is published when a capture fails.
type CaptureErrorEvent struct {
	DevicePath string `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	Kind       string `json:"kind" example:"short_read" enum:"device_control,short_read,closed,other" doc:"Failure class"`
	Error      string `json:"error" example:"v4l1: short frame read: got 100 of 230400 bytes" doc:"Detailed error description"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Error timestamp"`
}

// Type returns the event type identifier for CaptureErrorEvent.
func (e CaptureErrorEvent) Type() uint32 { return TypeCaptureError }

// PictureChangedEvent carries the picture settings the device reports after a change.
type PictureChangedEvent struct {
	DevicePath string `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	Brightness uint16 `json:"brightness" doc:"Brightness"`
	Hue        uint16 `json:"hue" doc:"Hue"`
	Colour     uint16 `json:"colour" doc:"Colour saturation"`
	Contrast   uint16 `json:"contrast" doc:"Contrast"`
	Whiteness  uint16 `json:"whiteness" doc:"Whiteness"`
	Depth      uint16 `json:"depth" example:"24" doc:"Bits per pixel"`
	Palette    string `json:"palette" example:"rgb24" doc:"Pixel encoding"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PictureChangedEvent.
func (e PictureChangedEvent) Type() uint32 { return TypePictureChanged }

// WindowChangedEvent carries the capture rectangle the device reports after a change.
type WindowChangedEvent struct {
	DevicePath string `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	X          uint32 `json:"x" doc:"Left edge"`
	Y          uint32 `json:"y" doc:"Top edge"`
	Width      uint32 `json:"width" example:"320" doc:"Width in pixels"`
	Height     uint32 `json:"height" example:"240" doc:"Height in pixels"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for WindowChangedEvent.
func (e WindowChangedEvent) Type() uint32 { return TypeWindowChanged }
