// Package longpoll implements long-polling event groups: publishers append events to a
// bounded per-group history and pollers block until an event newer than their cursor arrives.
package longpoll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/logger"
	"github.com/d1s-utils/hole/internal/pkg/metrics"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// DefaultRetention is the number of events kept per group.
const DefaultRetention = 100

// ErrUnknownGroup is returned for groups the hub was not configured with.
var ErrUnknownGroup = errors.New("unknown long-polling group")

// Event is a published notification.
type Event struct {
	ID string `json:"id"`
	// Sequence orders events across all groups of one hub. It is assigned locally,
	// so relayed events get a new sequence on every instance.
	Sequence  uint64          `json:"sequence"`
	Group     string          `json:"group"`
	Principal string          `json:"principal"`
	Data      json.RawMessage `json:"data"`
	Time      time.Time       `json:"time"`
}

// Relay forwards locally published events to other instances.
type Relay interface {
	Forward(event Event) error
}

// Hub holds the event history of the available groups.
type Hub struct {
	mu         sync.Mutex
	history    map[string][]Event
	retention  int
	sequence   uint64
	notify     chan struct{}
	relay      Relay
	instanceID string
	logger     logger.Logger
}

var _ objects.EventPublisher = (*Hub)(nil)

// NewHub creates a hub accepting events for groups.
func NewHub(groups []string, retention int, logger logger.Logger) *Hub {
	if retention <= 0 {
		retention = DefaultRetention
	}

	history := make(map[string][]Event, len(groups))
	for _, g := range groups {
		history[g] = nil
	}

	return &Hub{
		history:    history,
		retention:  retention,
		notify:     make(chan struct{}),
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

// InstanceID identifies this hub among relayed instances.
func (h *Hub) InstanceID() string {
	return h.instanceID
}

// SetRelay makes the hub forward published events through r.
func (h *Hub) SetRelay(r Relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay = r
}

// Cursor returns the sequence of the latest event.
func (h *Hub) Cursor() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sequence
}

// Publish appends an event carrying a JSON snapshot of data and forwards it to the relay.
func (h *Hub) Publish(_ context.Context, group, principal string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}

	event := Event{
		ID:        uuid.NewString(),
		Group:     group,
		Principal: principal,
		Data:      raw,
		Time:      time.Now().UTC(),
	}

	event, relay, err := h.append(event)
	if err != nil {
		return err
	}
	metrics.EventsPublished.WithLabelValues(group, "local").Inc()
	h.logger.Debug("published event", "group", group, "principal", principal, "sequence", event.Sequence)

	if relay != nil {
		if err := relay.Forward(event); err != nil {
			h.logger.Warn("failed to relay event", "group", group, "id", event.ID, "error", err)
		}
	}
	return nil
}

// Ingest appends an event received from another instance without forwarding it again.
func (h *Hub) Ingest(event Event) error {
	if _, _, err := h.append(event); err != nil {
		return err
	}
	metrics.EventsPublished.WithLabelValues(event.Group, "relay").Inc()
	return nil
}

func (h *Hub) append(event Event) (Event, Relay, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	events, ok := h.history[event.Group]
	if !ok {
		return event, nil, fmt.Errorf("%w: %s", ErrUnknownGroup, event.Group)
	}

	h.sequence++
	event.Sequence = h.sequence

	events = append(events, event)
	if len(events) > h.retention {
		events = append(events[:0:0], events[len(events)-h.retention:]...)
	}
	h.history[event.Group] = events

	close(h.notify)
	h.notify = make(chan struct{})

	return event, h.relay, nil
}

// Poll returns the events of group newer than after, restricted to principal when it is
// not empty. Without such events it waits for one until ctx is done, which yields an empty
// result. The returned cursor is the value to pass as after in the next poll.
//
// Sequences are local to a hub and restart at zero, so a cursor ahead of the hub was
// issued by another instance or before a restart. Such a cursor is treated as zero and
// the retained history is returned.
func (h *Hub) Poll(ctx context.Context, group, principal string, after uint64) ([]Event, uint64, error) {
	metrics.PollWaiters.Inc()
	defer metrics.PollWaiters.Dec()

	for {
		h.mu.Lock()
		history, ok := h.history[group]
		if !ok {
			h.mu.Unlock()
			return nil, after, fmt.Errorf("%w: %s", ErrUnknownGroup, group)
		}

		if after > h.sequence {
			h.logger.Debug("stale long-polling cursor", "group", group, "after", after, "sequence", h.sequence)
			after = 0
		}

		var found []Event
		for _, e := range history {
			if e.Sequence > after && (principal == "" || e.Principal == principal) {
				found = append(found, e)
			}
		}
		cursor := h.sequence
		wait := h.notify
		h.mu.Unlock()

		if len(found) > 0 {
			return found, cursor, nil
		}

		select {
		case <-ctx.Done():
			return []Event{}, cursor, nil
		case <-wait:
		}
	}
}
