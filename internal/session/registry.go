package session

import (
	"errors"

	"github.com/parlorgames/parlor-backend/internal/engine"
	"github.com/parlorgames/parlor-backend/internal/types"
)

var (
	ErrSessionFull = errors.New("session full")
	ErrNotFound    = errors.New("connection not registered")
)

type client struct {
	id     string
	name   string
	outbox chan types.ServerMessage
}

// registry maps connection IDs onto the two fixed slots. A connection keeps
// its slot until released; the first free slot is handed out on register.
type registry struct {
	slots [2]*client
}

func (r *registry) register(id, name string, outbox chan types.ServerMessage) (engine.SlotID, error) {
	for i, c := range r.slots {
		if c == nil {
			r.slots[i] = &client{id: id, name: name, outbox: outbox}
			return engine.SlotID(i), nil
		}
	}
	return 0, ErrSessionFull
}

func (r *registry) resolve(id string) (engine.SlotID, error) {
	for i, c := range r.slots {
		if c != nil && c.id == id {
			return engine.SlotID(i), nil
		}
	}
	return 0, ErrNotFound
}

// release frees the slot held by id. Idempotent.
func (r *registry) release(id string) {
	for i, c := range r.slots {
		if c != nil && c.id == id {
			r.slots[i] = nil
		}
	}
}

func (r *registry) releaseAll() {
	r.slots[0] = nil
	r.slots[1] = nil
}

func (r *registry) get(slot engine.SlotID) *client {
	return r.slots[slot]
}

func (r *registry) count() int {
	n := 0
	for _, c := range r.slots {
		if c != nil {
			n++
		}
	}
	return n
}

func (r *registry) names() [2]string {
	var out [2]string
	for i, c := range r.slots {
		if c != nil {
			out[i] = c.name
		}
	}
	return out
}
