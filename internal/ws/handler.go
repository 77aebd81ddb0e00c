// Package ws bridges websocket connections onto session inboxes: one reader
// loop feeding FromClient messages in, one writer goroutine draining the
// per-connection outbox.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/parlorgames/parlor-backend/internal/hub"
	"github.com/parlorgames/parlor-backend/internal/session"
	"github.com/parlorgames/parlor-backend/internal/types"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		name := r.URL.Query().Get("name")
		if code == "" || name == "" {
			http.Error(w, "missing code or name", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := ulid.Make().String()
		out := make(chan types.ServerMessage, 16)

		joined := make(chan session.JoinReply, 1)
		sess.Inbox() <- session.Join{ConnID: connID, Name: name, Outbox: out, Reply: joined}
		if rep := <-joined; rep.Err != nil {
			writeMsg(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Error: "room full"})
			conn.Close(websocket.StatusPolicyViolation, "room full")
			return
		}
		defer func() { sess.Inbox() <- session.Leave{ConnID: connID} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case msg, ok := <-out:
					if !ok {
						// Session closed the outbox; drop the socket so the
						// reader unblocks and the client rejoins fresh.
						conn.Close(websocket.StatusNormalClosure, "session reset")
						return
					}
					if err := writeMsg(writeCtx, conn, msg); err != nil {
						return
					}
				case <-writeCtx.Done():
					return
				}
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read ended", zap.String("conn", connID), zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = writeMsg(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}
			sess.Inbox() <- session.FromClient{ConnID: connID, Msg: cm}
		}
	}
}

func writeMsg(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, payload)
}
