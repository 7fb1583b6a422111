package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/v4lgrab/internal/api/models"
	"github.com/smazurov/v4lgrab/pkg/ppm"
)

func (s *Server) registerDeviceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-device",
		Method:      http.MethodGet,
		Path:        "/api/device",
		Summary:     "Device",
		Description: "Get the device path, capabilities and feed state",
		Tags:        []string{"device"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.DeviceResponse, error) {
		return &models.DeviceResponse{
			Body: models.DeviceData{
				Path:        s.grabber.Path(),
				Healthy:     s.grabber.Healthy(),
				Subscribers: s.grabber.Subscribers(),
				Capability:  models.NewCapabilityData(s.grabber.Capabilities()),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-picture",
		Method:      http.MethodGet,
		Path:        "/api/device/picture",
		Summary:     "Get Picture",
		Description: "Read the picture controls, depth and palette from the device",
		Tags:        []string{"device"},
		Security:    withAuth(),
		Errors:      []int{401, 502, 503},
	}, func(ctx context.Context, input *struct{}) (*models.PictureResponse, error) {
		pic, err := s.grabber.Picture()
		if err != nil {
			return nil, deviceError("Failed to query picture", err)
		}
		return &models.PictureResponse{Body: models.NewPictureData(pic)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-picture",
		Method:      http.MethodPut,
		Path:        "/api/device/picture",
		Summary:     "Update Picture",
		Description: "Change picture controls. Omitted fields keep their value. Returns what the device reports afterwards, which may be clamped.",
		Tags:        []string{"device"},
		Security:    withAuth(),
		Errors:      []int{401, 422, 502, 503},
	}, func(ctx context.Context, input *models.PictureUpdateRequest) (*models.PictureResponse, error) {
		pic, err := s.grabber.UpdatePicture(input.Body.Apply)
		if err != nil {
			return nil, deviceError("Failed to update picture", err)
		}
		return &models.PictureResponse{Body: models.NewPictureData(pic)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-window",
		Method:      http.MethodGet,
		Path:        "/api/device/window",
		Summary:     "Get Window",
		Description: "Read the capture rectangle from the device",
		Tags:        []string{"device"},
		Security:    withAuth(),
		Errors:      []int{401, 502, 503},
	}, func(ctx context.Context, input *struct{}) (*models.WindowResponse, error) {
		win, err := s.grabber.Window()
		if err != nil {
			return nil, deviceError("Failed to query window", err)
		}
		return &models.WindowResponse{Body: models.NewWindowData(win)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-window",
		Method:      http.MethodPut,
		Path:        "/api/device/window",
		Summary:     "Update Window",
		Description: "Change the capture rectangle. Bounds are checked by the driver only.",
		Tags:        []string{"device"},
		Security:    withAuth(),
		Errors:      []int{401, 422, 502, 503},
	}, func(ctx context.Context, input *models.WindowUpdateRequest) (*models.WindowResponse, error) {
		win, err := s.grabber.UpdateWindow(input.Body.Apply)
		if err != nil {
			return nil, deviceError("Failed to update window", err)
		}
		return &models.WindowResponse{Body: models.NewWindowData(win)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/device/snapshot",
		Summary:     "Snapshot",
		Description: "Capture one frame. ppm converts rgb and grey palettes to a P6 image; raw returns the bytes read from the device.",
		Tags:        []string{"device"},
		Security:    withAuth(),
		Errors:      []int{401, 422, 502, 503},
	}, func(ctx context.Context, input *models.SnapshotRequest) (*models.SnapshotResponse, error) {
		frame, err := s.grabber.Capture()
		if err != nil {
			return nil, deviceError("Failed to capture frame", err)
		}

		resp := &models.SnapshotResponse{
			Width:   int(frame.Width),
			Height:  int(frame.Height),
			Depth:   int(frame.Depth),
			Palette: frame.Palette.String(),
		}
		if input.Format == "raw" {
			resp.ContentType = "application/octet-stream"
			resp.Body = frame.Data
			return resp, nil
		}

		rgb, err := frame.RGB24()
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("Frame cannot be converted to PPM, use format=raw", err)
		}
		var buf bytes.Buffer
		if err := ppm.Encode(&buf, int(frame.Width), int(frame.Height), rgb); err != nil {
			return nil, huma.Error500InternalServerError("Failed to encode PPM", err)
		}
		resp.ContentType = "image/x-portable-pixmap"
		resp.Body = buf.Bytes()
		return resp, nil
	})
}
