package nats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smazurov/v4lgrab/internal/config"
)

// SubjectPrefix is the first token of every subject.
const SubjectPrefix = "v4lgrab"

// Subject kinds below a device.
const (
	KindFrames   = "frames"
	KindErrors   = "errors"
	KindPicture  = "picture"
	KindWindow   = "window"
	KindControls = "controls"
)

// DeviceToken turns a device path into a single subject token.
func DeviceToken(path string) string {
	name := strings.TrimPrefix(path, "/dev/")
	name = strings.Trim(name, "/")
	if name == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', '/', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, name)
}

// Subject returns the subject for kind on the device at path.
func Subject(path, kind string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, DeviceToken(path), kind)
}

// ControlReply answers a controls request.
type ControlReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Marshal serializes the reply to JSON.
func (r ControlReply) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalControls decodes a controls request. Unknown keys are errors.
func UnmarshalControls(data []byte) (config.Controls, error) {
	var c config.Controls
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return config.Controls{}, fmt.Errorf("nats: decode controls: %w", err)
	}
	return c, nil
}
