package session

import (
	"github.com/parlorgames/parlor-backend/internal/engine"
	"github.com/parlorgames/parlor-backend/internal/types"
)

type Msg interface{ isSessionMsg() }

// Join registers a connection under a display name. The reply carries the
// assigned slot or ErrSessionFull.
type Join struct {
	ConnID string
	Name   string
	Outbox chan types.ServerMessage
	Reply  chan JoinReply
}

type JoinReply struct {
	Slot engine.SlotID
	Err  error
}

// Leave releases the connection's slot. Leaving an open session hard-resets
// it and notifies the remaining peer.
type Leave struct{ ConnID string }

// FromClient is one inbound wire message attributed to a connection.
type FromClient struct {
	ConnID string
	Msg    types.ClientMessage
}

// GetState asks for a race-free summary of internals; test and debug only.
type GetState struct{ Reply chan Summary }

type Shutdown struct{}

// timerFired drives the countdown. Stale generations are dropped so a reset
// mid-countdown cancels pending ticks.
type timerFired struct{ gen int }

func (Join) isSessionMsg()       {}
func (Leave) isSessionMsg()      {}
func (FromClient) isSessionMsg() {}
func (GetState) isSessionMsg()   {}
func (Shutdown) isSessionMsg()   {}
func (timerFired) isSessionMsg() {}

// Summary reflects session internals without exposing live state to other
// goroutines.
type Summary struct {
	Phase      Phase
	NumClients int
	Names      [2]string
	Round      int
	Rejected   int

	// Hangman: current mask, empty when no round is live.
	Revealed   string
	WrongCount int

	// Speed: cards still in play, zero when no game is live.
	TotalCards int
}
