package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/virusthegame/backend/internal/hub"
	"github.com/virusthegame/backend/internal/room"
	"github.com/virusthegame/backend/internal/store"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateRoom allocates a fresh room code and opens the room.
func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *room.Room, 1)
			h.Inbox() <- hub.GetRoom{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Info("collision on room code, regenerating", zap.String("code", c))
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.CreateRoom{Code: code, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

// RegisterPlayer creates (or rejects a duplicate of) a nickname and issues a
// connection token for it.
func RegisterPlayer(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Nickname string `json:"nickname"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nickname == "" {
			http.Error(w, "missing nickname", http.StatusBadRequest)
			return
		}

		rec, err := st.CreatePlayer(r.Context(), req.Nickname)
		if errors.Is(err, store.ErrDuplicateNickname) {
			http.Error(w, "nickname already taken", http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, "failed to create player", http.StatusInternalServerError)
			return
		}

		token, err := st.IssueToken(r.Context(), rec.ID)
		if err != nil {
			http.Error(w, "failed to issue token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			PlayerID int    `json:"player_id"`
			Nickname string `json:"nickname"`
			Token    string `json:"token"`
		}{PlayerID: rec.ID, Nickname: rec.Nickname, Token: token})
	}
}

func GetPlayer(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nickname := chi.URLParam(r, "nickname")
		rec, err := st.FindPlayer(r.Context(), nickname)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "lookup failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func ListGames(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := st.ListGames(r.Context())
		if err != nil {
			http.Error(w, "listing failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Games []store.GameRecord `json:"games"`
		}{Games: recs})
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
