package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"github.com/parlorgames/parlor-backend/internal/hub"
	"github.com/parlorgames/parlor-backend/internal/session"
	"github.com/parlorgames/parlor-backend/internal/store"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateRoom makes a fresh room for the requested game and returns its join
// code.
func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Game string `json:"game"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		mode := session.Mode(body.Game)
		if mode != session.ModeHangman && mode != session.ModeSpeed {
			http.Error(w, "game must be hangman or speed", http.StatusBadRequest)
			return
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.GetRoom{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Debug("room code collision, regenerating", zap.String("code", c))
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.CreateRoom{Code: code, Mode: mode, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
			Game string `json:"game"`
		}{Code: code, Game: body.Game})
	}
}

// HangmanScores serves every recorded hangman result.
func HangmanScores(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			http.Error(w, "no store configured", http.StatusServiceUnavailable)
			return
		}
		scores, err := st.HangmanScores(r.Context())
		if err != nil {
			http.Error(w, "failed to fetch scores", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, scores)
	}
}

// SpeedHistory serves the speed games a named player took part in.
func SpeedHistory(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			http.Error(w, "no store configured", http.StatusServiceUnavailable)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}
		history, err := st.SpeedHistory(r.Context(), name)
		if err != nil {
			http.Error(w, "failed to fetch history", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

// InitWords seeds the word table; safe to call repeatedly.
func InitWords(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			http.Error(w, "no store configured", http.StatusServiceUnavailable)
			return
		}
		n, err := st.SeedWords(r.Context())
		if err != nil {
			http.Error(w, "failed to seed words", http.StatusInternalServerError)
			return
		}
		msg := "words already initialized"
		if n > 0 {
			msg = "words initialized"
		}
		writeJSON(w, http.StatusOK, struct {
			Message string `json:"message"`
			Count   int    `json:"count"`
		}{Message: msg, Count: n})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
