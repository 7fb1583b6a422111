// Package api serves the capture device over HTTP: device state, picture and
// window controls, snapshots, an SSE event stream and a websocket frame feed.
package api

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/gorilla/websocket"

	"github.com/smazurov/v4lgrab/internal/api/models"
	"github.com/smazurov/v4lgrab/internal/events"
	"github.com/smazurov/v4lgrab/internal/grabber"
	"github.com/smazurov/v4lgrab/internal/logging"
	"github.com/smazurov/v4lgrab/internal/version"
	"github.com/smazurov/v4lgrab/ui"
)

const authRealm = `Basic realm="v4lgrab API"`

// Options configures the API server.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	Grabber           *grabber.Service
	EventBus          *events.Bus
	PrometheusHandler http.Handler // optional, served at /metrics without auth
}

// Server is the HTTP API in front of one grabber.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	grabber    *grabber.Service
	eventBus   *events.Bus
	options    *Options
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

var (
	errAuthType   = errors.New("invalid authentication type")
	errAuthFormat = errors.New("invalid credentials format")
	errAuthNone   = errors.New("authentication required")
	errAuthBad    = errors.New("invalid credentials")
)

// checkCredentials validates a Basic Authorization header, falling back to
// the base64 "auth" query parameter used by browser SSE and websocket clients.
func checkCredentials(header, query, username, password string) error {
	var encoded string
	switch {
	case header != "":
		const prefix = "Basic "
		if !strings.HasPrefix(header, prefix) {
			return errAuthType
		}
		encoded = header[len(prefix):]
	case query != "":
		encoded = query
	default:
		return errAuthNone
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return errAuthFormat
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return errAuthFormat
	}
	if user != username || pass != password {
		return errAuthBad
	}
	return nil
}

// basicAuthMiddleware rejects unauthenticated calls to operations that
// declare a security requirement.
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		if err := checkCredentials(ctx.Header("Authorization"), ctx.Query("auth"), username, password); err != nil {
			ctx.SetHeader("WWW-Authenticate", authRealm)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, err.Error())
			return
		}
		next(ctx)
	}
}

func (s *Server) authEnabled() bool {
	return s.options.AuthUsername != "" && s.options.AuthPassword != ""
}

// NewServer builds the API. opts.Grabber is required.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("v4lgrab API", version.Version)
	config.Info.Description = "Control and frame capture API for V4L1 video devices"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	server := &Server{
		api:      api,
		mux:      mux,
		grabber:  opts.Grabber,
		eventBus: opts.EventBus,
		options:  opts,
		logger:   logging.GetLogger("api"),
	}

	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if server.authEnabled() {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()

	// Browser viewer at the root, API paths excluded
	if viewer, err := ui.Handler(); err == nil {
		mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api") {
				http.NotFound(w, r)
				return
			}
			viewer.ServeHTTP(w, r)
		})
	}
	return server
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start listens on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting v4lgrab API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop closes the listener and all connections.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Report whether the last capture succeeded",
		Tags:        []string{"health"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		if !s.grabber.Probe() {
			return &models.HealthResponse{
				Body: models.HealthData{Status: "degraded", Message: "Device not responding"},
			}, nil
		}
		return &models.HealthResponse{
			Body: models.HealthData{Status: "ok", Message: "Device ready"},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		return &models.VersionResponse{Body: version.Get()}, nil
	})

	s.registerDeviceRoutes()
	s.registerSSERoutes()
	s.registerFrameRoutes()
}

// withAuth returns security requirement for basic auth
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
