package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parlorgames/parlor-backend/internal/engine"
	"github.com/parlorgames/parlor-backend/internal/types"
)

func newOutbox() chan types.ServerMessage {
	return make(chan types.ServerMessage, 16)
}

func TestRegistryAssignsFirstFreeSlot(t *testing.T) {
	var r registry

	slot, err := r.register("c1", "alice", newOutbox())
	require.NoError(t, err)
	require.Equal(t, engine.SlotA, slot)

	slot, err = r.register("c2", "bob", newOutbox())
	require.NoError(t, err)
	require.Equal(t, engine.SlotB, slot)

	_, err = r.register("c3", "carol", newOutbox())
	require.ErrorIs(t, err, ErrSessionFull)
	require.Equal(t, 2, r.count())
}

func TestRegistryResolve(t *testing.T) {
	var r registry
	_, err := r.register("c1", "alice", newOutbox())
	require.NoError(t, err)

	slot, err := r.resolve("c1")
	require.NoError(t, err)
	require.Equal(t, engine.SlotA, slot)

	_, err = r.resolve("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryReleaseIsIdempotent(t *testing.T) {
	var r registry
	_, err := r.register("c1", "alice", newOutbox())
	require.NoError(t, err)
	_, err = r.register("c2", "bob", newOutbox())
	require.NoError(t, err)

	r.release("c1")
	r.release("c1")
	require.Equal(t, 1, r.count())

	// Freed slot is handed out again; the other assignment is untouched.
	slot, err := r.register("c3", "carol", newOutbox())
	require.NoError(t, err)
	require.Equal(t, engine.SlotA, slot)

	slot, err = r.resolve("c2")
	require.NoError(t, err)
	require.Equal(t, engine.SlotB, slot)
}

func TestRegistryNames(t *testing.T) {
	var r registry
	_, _ = r.register("c1", "alice", newOutbox())
	_, _ = r.register("c2", "bob", newOutbox())
	require.Equal(t, [2]string{"alice", "bob"}, r.names())
}
