// Package nats mirrors the capture event bus onto NATS and accepts control
// requests from other processes.
//
// # Subject Hierarchy
//
//	v4lgrab.{device}.frames     # FrameCapturedEvent (published)
//	v4lgrab.{device}.errors     # CaptureErrorEvent (published)
//	v4lgrab.{device}.picture    # PictureChangedEvent (published)
//	v4lgrab.{device}.window     # WindowChangedEvent (published)
//	v4lgrab.{device}.controls   # controls request, answered with a ControlReply
//
// {device} is the device path without the /dev/ prefix, with characters
// NATS reserves replaced by "_" (/dev/video0 becomes video0). Frame payloads
// are not published, only the metadata; use the websocket feed for pixels.
//
// The server either connects to an external NATS server or starts an
// embedded one. Core NATS only, no JetStream. When the server is not
// reachable the publisher logs and keeps retrying in the background.
//
// # Debugging with nats CLI
//
// Monitor all events for all devices:
//
//	nats sub "v4lgrab.>"
//
// Change the picture and window:
//
//	nats req "v4lgrab.video0.controls" \
//	  '{"picture":{"brightness":40000},"window":{"width":320,"height":240}}'
//
// A failed request answers with the error:
//
//	{"ok":false,"error":"v4l1: unknown palette \"rgb99\" (valid: grey, ...)"}
package nats
