// Package realtime fans change events out to live pages. A page registers a
// handler when it is created and unregisters it at teardown; the hub is fed
// by the community topic exchange, so every API instance sees every change
// regardless of which instance wrote it.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/you/badminton-network/pkg/mq"
)

type Event struct {
	Key     string          `json:"key"`
	Payload json.RawMessage `json:"payload"`
}

const subscriberBuffer = 16

type Subscription struct {
	C        <-chan Event
	ch       chan Event
	prefixes []string
	hub      *Hub
	once     sync.Once
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

func (s *Subscription) wants(key string) bool {
	for _, p := range s.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers interest in every event whose routing key starts with
// one of the given prefixes (e.g. "court.", "reply.created").
func (h *Hub) Subscribe(prefixes ...string) *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, prefixes: prefixes, hub: h}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// Publish delivers to every matching subscriber. A subscriber that cannot
// keep up loses the event rather than stalling the hub; live pages reload
// their lists on reconnect anyway.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.wants(ev.Key) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Run pumps deliveries from the exchange into the hub until ctx is done.
func (h *Hub) Run(ctx context.Context, cons *mq.Consumer) error {
	msgs, err := cons.Deliveries(ctx)
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				h.Publish(Event{Key: d.RoutingKey, Payload: append([]byte(nil), d.Body...)})
				if err := d.Ack(false); err != nil {
					log.Printf("[realtime] ack error: %v", err)
				}
			}
		}
	}()
	return nil
}
