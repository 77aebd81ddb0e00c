// Package hub owns the room map: one session actor per room code. The hub
// itself is an actor so room creation and lookup never race.
package hub

import (
	"context"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/parlorgames/parlor-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Code  string
	Mode  session.Mode
	Reply chan *session.Session
}

type GetRoom struct {
	Code  string
	Reply chan *session.Session
}

type RemoveRoom struct {
	Code string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Deps are shared across every session the hub creates.
type Deps struct {
	Recorder session.Recorder
	Words    session.WordSource
	Logger   *zap.Logger
}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*session.Session
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, deps Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*session.Session),
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if sess := h.rooms[msg.Code]; sess != nil {
					msg.Reply <- sess
					break
				}
				msg.Reply <- h.create(msg.Code, msg.Mode)

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RemoveRoom:
				if sess := h.rooms[msg.Code]; sess != nil {
					sess.Inbox() <- session.Shutdown{}
					delete(h.rooms, msg.Code)
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) create(code string, mode session.Mode) *session.Session {
	sess := session.New(h.ctx, mode, session.Options{
		Recorder: h.deps.Recorder,
		Words:    h.deps.Words,
		Logger:   h.deps.Logger.With(zap.String("room", code)),
		Rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		// Empty rooms reap themselves; room codes are single-use.
		OnIdle: func() {
			select {
			case h.inbox <- RemoveRoom{Code: code}:
			case <-h.ctx.Done():
			}
		},
	})
	h.rooms[code] = sess
	h.deps.Logger.Info("room created", zap.String("code", code), zap.String("mode", string(mode)))
	return sess
}

func (h *Hub) shutdown() {
	for _, sess := range h.rooms {
		sess.Inbox() <- session.Shutdown{}
	}
	clear(h.rooms)
	h.cancel()
}
