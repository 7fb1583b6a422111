package nats

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/smazurov/v4lgrab/internal/config"
	"github.com/smazurov/v4lgrab/internal/events"
)

// ControlFunc applies a controls request to the device.
type ControlFunc func(config.Controls) error

// Publisher forwards bus events for one device to NATS and serves the
// device's controls subject.
type Publisher struct {
	url     string
	device  string
	bus     *events.Bus
	control ControlFunc
	logger  *slog.Logger

	mu     sync.Mutex
	conn   *nats.Conn
	sub    *nats.Subscription
	unsubs []func()
}

// NewPublisher creates a publisher for the device at devicePath. control
// may be nil, in which case the controls subject is not served.
func NewPublisher(url, devicePath string, bus *events.Bus, control ControlFunc, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		url:     url,
		device:  devicePath,
		bus:     bus,
		control: control,
		logger:  logger.With("component", "nats-publisher"),
	}
}

// Start connects and begins forwarding. If the first connection attempt
// fails the client keeps retrying in the background and Start returns nil.
func (p *Publisher) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := nats.Connect(p.url,
		nats.Name("v4lgrab-"+DeviceToken(p.device)),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				p.logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			p.logger.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return err
	}
	p.conn = conn
	if !conn.IsConnected() {
		p.logger.Warn("NATS not reachable, retrying in background", "url", p.url)
	} else {
		p.logger.Info("Connected to NATS", "url", p.url)
	}

	if p.control != nil {
		sub, err := conn.Subscribe(Subject(p.device, KindControls), p.handleControls)
		if err != nil {
			conn.Close()
			p.conn = nil
			return err
		}
		p.sub = sub
		if conn.IsConnected() {
			if err := conn.Flush(); err != nil {
				p.logger.Warn("NATS flush failed", "error", err)
			}
		}
	}

	p.unsubs = []func(){
		forward[events.FrameCapturedEvent](p, KindFrames),
		forward[events.CaptureErrorEvent](p, KindErrors),
		forward[events.PictureChangedEvent](p, KindPicture),
		forward[events.WindowChangedEvent](p, KindWindow),
	}
	return nil
}

// forward subscribes to bus events of type T and publishes them under kind.
func forward[T events.Event](p *Publisher, kind string) func() {
	subject := Subject(p.device, kind)
	return p.bus.Subscribe(func(e T) {
		p.publish(subject, e)
	})
}

func (p *Publisher) publish(subject string, v any) {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		p.logger.Warn("Failed to marshal event", "subject", subject, "error", err)
		return
	}
	if err := conn.Publish(subject, data); err != nil {
		p.logger.Debug("Failed to publish event", "subject", subject, "error", err)
	}
}

func (p *Publisher) handleControls(msg *nats.Msg) {
	reply := ControlReply{OK: true}
	c, err := UnmarshalControls(msg.Data)
	if err == nil {
		err = p.control(c)
	}
	if err != nil {
		reply = ControlReply{Error: err.Error()}
		p.logger.Warn("Controls request failed", "error", err)
	} else {
		p.logger.Info("Applied controls from NATS")
	}

	if msg.Reply == "" {
		return
	}
	data, err := reply.Marshal()
	if err != nil {
		return
	}
	if err := msg.Respond(data); err != nil {
		p.logger.Debug("Failed to answer controls request", "error", err)
	}
}

// IsConnected reports whether the connection is currently up.
func (p *Publisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil && p.conn.IsConnected()
}

// Stop unsubscribes from the bus and closes the connection after flushing
// pending messages.
func (p *Publisher) Stop() {
	p.mu.Lock()
	unsubs := p.unsubs
	p.unsubs = nil
	p.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sub != nil {
		_ = p.sub.Unsubscribe()
		p.sub = nil
	}
	if p.conn != nil {
		if p.conn.IsConnected() {
			_ = p.conn.Drain()
		} else {
			p.conn.Close()
		}
		p.conn = nil
	}
}
