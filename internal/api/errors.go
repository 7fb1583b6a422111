package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// deviceError maps a device layer error to an HTTP error. Invalid requests
// are 422, driver rejections 502, and lost frames or a closed device 503.
func deviceError(msg string, err error) error {
	var (
		encErr   *v4l1.InvalidEncodingError
		typeErr  *v4l1.TypeMismatchError
		fieldErr *v4l1.ImmutableFieldError
		ctlErr   *v4l1.DeviceControlError
		readErr  *v4l1.ShortReadError
	)
	switch {
	case errors.As(err, &encErr), errors.As(err, &typeErr), errors.As(err, &fieldErr):
		return huma.Error422UnprocessableEntity(msg, err)
	case errors.Is(err, v4l1.ErrClosed), errors.As(err, &readErr):
		return huma.Error503ServiceUnavailable(msg, err)
	case errors.As(err, &ctlErr):
		return huma.Error502BadGateway(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
