// Package bus is the in-process message router between engine instances.
// Each instance gets a FIFO inbox drained by a single goroutine, so message
// handlers run to completion one at a time and instances never share memory.
// Delivery is at-least-once in order; receivers dedup by envelope ID.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const inboxCapacity = 1024

// Envelope is the unit of cross-instance communication.
type Envelope struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Payload     json.RawMessage `json:"payload"`
	SentAt      time.Time       `json:"sent_at"`
}

// NewEnvelope wraps a typed payload for delivery.
func NewEnvelope(source, destination, kind string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", kind, err)
	}
	return Envelope{
		ID:          uuid.NewString(),
		Kind:        kind,
		Source:      source,
		Destination: destination,
		Payload:     raw,
		SentAt:      time.Now().UTC(),
	}, nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Kind, err)
	}
	return nil
}

// Handler is a registered instance.
type Handler interface {
	InstanceID() string
	HandleMessage(env Envelope) error
}

// Router owns the inboxes. Register every instance before Start.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	inboxes  map[string]chan Envelope
	wg       sync.WaitGroup
}

func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]Handler),
		inboxes:  make(map[string]chan Envelope),
	}
}

func (r *Router) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := h.InstanceID()
	if _, exists := r.handlers[id]; exists {
		log.Printf("⚠️ [BUS] duplicate registration for instance %s ignored", id)
		return
	}
	r.handlers[id] = h
	r.inboxes[id] = make(chan Envelope, inboxCapacity)
}

// Send enqueues an envelope on the destination inbox. Envelopes to unknown
// destinations or full inboxes are dropped with a warning; the sender's
// state has already committed, which is exactly the at-least-once contract.
// Never blocking here matters: senders hold their instance mutex, and a
// blocking send into a stalled peer could deadlock both instances.
func (r *Router) Send(env Envelope) {
	r.mu.RLock()
	inbox, ok := r.inboxes[env.Destination]
	r.mu.RUnlock()
	if !ok {
		log.Printf("⚠️ [BUS] undeliverable %s from %s to unknown instance %s", env.Kind, env.Source, env.Destination)
		return
	}
	select {
	case inbox <- env:
	default:
		log.Printf("⚠️ [BUS] inbox for %s full, dropping %s (%s) from %s", env.Destination, env.Kind, env.ID, env.Source)
	}
}

// Start spins up one consumer goroutine per registered instance. Handler
// errors are logged and the envelope is dropped; handlers that need retries
// re-send themselves.
func (r *Router) Start(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, inbox := range r.inboxes {
		handler := r.handlers[id]
		ch := inbox
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case env := <-ch:
					if err := handler.HandleMessage(env); err != nil {
						log.Printf("❌ [BUS] %s failed handling %s (%s): %v", handler.InstanceID(), env.Kind, env.ID, err)
					}
				}
			}
		}()
	}
	log.Printf("✅ Message router started with %d instance(s)", len(r.handlers))
}

// Wait blocks until all consumers have stopped (after ctx cancellation).
func (r *Router) Wait() {
	r.wg.Wait()
}
