package session

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parlorgames/parlor-backend/internal/engine"
	"github.com/parlorgames/parlor-backend/internal/types"
)

func viewSession(t *testing.T) *Session {
	t.Helper()
	s := &Session{phase: PhaseActive}
	_, err := s.reg.register("c1", "alice", newOutbox())
	require.NoError(t, err)
	_, err = s.reg.register("c2", "bob", newOutbox())
	require.NoError(t, err)
	return s
}

func TestSpeedViewShowsOnlyOwnHand(t *testing.T) {
	s := viewSession(t)
	s.mode = ModeSpeed
	s.speed = engine.NewSpeedGame(rand.New(rand.NewPCG(3, 4)))

	viewA := s.speedViewFor(engine.SlotA)
	viewB := s.speedViewFor(engine.SlotB)

	require.Equal(t, engine.CardStrings(s.speed.Players[engine.SlotA].Hand), viewA.Hand)
	require.Equal(t, engine.CardStrings(s.speed.Players[engine.SlotB].Hand), viewB.Hand)
	require.NotEqual(t, viewA.Hand, viewB.Hand)

	// Opponent cards appear only as counts.
	require.Equal(t, len(s.speed.Players[engine.SlotB].Hand), viewA.OpponentHandCount)
	require.Equal(t, 20, viewA.OpponentSideCount)

	// Both recipients agree on the public pile tops.
	require.Equal(t, viewA.PileTops, viewB.PileTops)
}

func TestWordViewNeverLeaksSecret(t *testing.T) {
	s := viewSession(t)
	s.mode = ModeHangman
	s.round = 1
	s.word = engine.NewWordGame("zephyrs", engine.SlotA)
	s.word.ApplyGuess(engine.SlotB, 'e')

	for _, slot := range []engine.SlotID{engine.SlotA, engine.SlotB} {
		snap := s.snapshotFor(slot)
		payload, err := json.Marshal(snap)
		require.NoError(t, err)
		require.False(t, strings.Contains(string(payload), "zephyrs"),
			"serialized snapshot contains the secret: %s", payload)
	}

	viewB := s.wordViewFor(engine.SlotB)
	require.True(t, viewB.YouAreGuesser)
	require.Equal(t, []string{"_", "e", "_", "_", "_", "_", "_"}, viewB.Revealed)
	require.Equal(t, "alice", viewB.SetterName)
	require.Equal(t, "bob", viewB.GuesserName)
}

func TestSnapshotCarriesPhaseOnly_WhenNoGameLive(t *testing.T) {
	s := viewSession(t)
	s.phase = PhasePreparing

	snap := s.snapshotFor(engine.SlotA)
	require.Equal(t, types.MsgStateSnapshot, snap.Type)
	require.Equal(t, string(PhasePreparing), snap.Phase)
	require.Nil(t, snap.Word)
	require.Nil(t, snap.Speed)
}
