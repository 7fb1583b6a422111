package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// Setting is one field=value pair for a picture or window record.
type Setting struct {
	Field string
	Value string
}

// Assignments are command line settings grouped by record, in argument order.
type Assignments struct {
	Picture []Setting
	Window  []Setting
}

// ParseAssignments reads key=value arguments. A key is a picture or window
// field name, optionally qualified as "picture.<field>" or "window.<field>".
func ParseAssignments(args []string) (Assignments, error) {
	var a Assignments
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return Assignments{}, fmt.Errorf("config: %q is not key=value", arg)
		}

		record, field, qualified := strings.Cut(key, ".")
		if !qualified {
			record, field = "", key
		}

		switch {
		case (record == "" || record == "picture") && isPictureField(field):
			a.Picture = append(a.Picture, Setting{Field: field, Value: value})
		case (record == "" || record == "window") && slices.Contains(v4l1.WindowFieldNames, field):
			a.Window = append(a.Window, Setting{Field: field, Value: value})
		default:
			return Assignments{}, fmt.Errorf("config: unknown setting %q", key)
		}
	}
	return a, nil
}

func isPictureField(name string) bool {
	return name == "color" || slices.Contains(v4l1.PictureFieldNames, name)
}

// ApplyPicture sets the picture fields on p.
func (a Assignments) ApplyPicture(p *v4l1.Picture) error {
	for _, s := range a.Picture {
		if err := p.SetField(s.Field, s.Value); err != nil {
			return fmt.Errorf("%s: %w", s.Field, err)
		}
	}
	return nil
}

// ApplyWindow sets the window fields on w.
func (a Assignments) ApplyWindow(w *v4l1.Window) error {
	for _, s := range a.Window {
		if err := w.SetField(s.Field, s.Value); err != nil {
			return fmt.Errorf("%s: %w", s.Field, err)
		}
	}
	return nil
}
