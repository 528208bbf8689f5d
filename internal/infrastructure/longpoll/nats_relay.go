package longpoll

import (
	"fmt"

	"github.com/d1s-utils/hole/internal/pkg/logger"
	json "github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

// envelope is the wire format of relayed events.
type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// NATSRelay shares events between hole instances over NATS subjects <prefix>.<group>.
type NATSRelay struct {
	conn   *nats.Conn
	sub    *nats.Subscription
	prefix string
	hub    *Hub
	logger logger.Logger
}

// NewNATSRelay connects to url, subscribes to the events of other instances and
// attaches itself to hub.
func NewNATSRelay(url, prefix string, hub *Hub, logger logger.Logger) (*NATSRelay, error) {
	conn, err := nats.Connect(url, nats.Name("hole-"+hub.InstanceID()), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	r := &NATSRelay{
		conn:   conn,
		prefix: prefix,
		hub:    hub,
		logger: logger,
	}

	r.sub, err = conn.Subscribe(prefix+".>", r.receive)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %s.>: %w", prefix, err)
	}
	if err := conn.Flush(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to flush NATS subscription: %w", err)
	}

	hub.SetRelay(r)
	logger.Info("relaying long-polling events over NATS", "url", url, "prefix", prefix)
	return r, nil
}

// Forward publishes a local event.
func (r *NATSRelay) Forward(event Event) error {
	data, err := json.Marshal(envelope{Origin: r.hub.InstanceID(), Event: event})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := r.conn.Publish(r.prefix+"."+event.Group, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (r *NATSRelay) receive(msg *nats.Msg) {
	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		r.logger.Warn("dropping malformed relayed event", "subject", msg.Subject, "error", err)
		return
	}
	if env.Origin == r.hub.InstanceID() {
		return
	}
	if err := r.hub.Ingest(env.Event); err != nil {
		r.logger.Warn("dropping relayed event", "subject", msg.Subject, "error", err)
	}
}

// Close detaches the relay from the hub and closes the connection.
func (r *NATSRelay) Close() error {
	r.hub.SetRelay(nil)
	if err := r.sub.Unsubscribe(); err != nil {
		r.logger.Warn("failed to unsubscribe", "error", err)
	}
	return r.conn.Drain()
}
