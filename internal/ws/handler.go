package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/virusthegame/backend/internal/hub"
	"github.com/virusthegame/backend/internal/protocol"
	"github.com/virusthegame/backend/internal/room"
)

// Identity is a resolved connection identity.
type Identity struct {
	PlayerID int
	Name     string
}

// IdentityResolver maps an opaque connection token to a stable player
// identity. Implemented by the store; consumed at connect-time only.
type IdentityResolver interface {
	Identify(ctx context.Context, token string) (Identity, error)
}

// Options carries the transport-level knobs shared by both endpoints.
type Options struct {
	OriginPatterns []string
	IdleTimeout    time.Duration
	WriteTimeout   time.Duration
}

func (o Options) withDefaults() Options {
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 60 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 3 * time.Second
	}
	return o
}

// PlayerHandler serves GET /ws?code=&token=. The connection is authenticated
// via the identity resolver, registered with the room actor, and from then
// on only relays envelopes: inbound frames are parsed here and forwarded to
// the room inbox; outbound envelopes drain from the room-owned outbox.
func PlayerHandler(h *hub.Hub, ids IdentityResolver, log *zap.Logger, opts Options) http.HandlerFunc {
	opts = opts.withDefaults()
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		identity, err := ids.Identify(r.Context(), token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connLog := log.With(
			zap.String("room", code),
			zap.Int("player", identity.PlayerID),
			zap.String("conn", uuid.NewString()),
		)
		connLog.Info("player connected")

		out := make(chan protocol.Envelope, 8)
		rm.Inbox() <- room.Connect{PlayerID: identity.PlayerID, Name: identity.Name, Outbox: out}
		defer func() { rm.Inbox() <- room.Disconnect{PlayerID: identity.PlayerID, Outbox: out} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go writeLoop(writeCtx, conn, out, opts.WriteTimeout)

		for {
			ctx, cancel := context.WithTimeout(r.Context(), opts.IdleTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					connLog.Info("player disconnected")
				default:
					connLog.Debug("read failed", zap.Error(err))
				}
				return
			}

			env, err := protocol.Parse(data)
			if err != nil {
				// Malformed envelopes answer only this player and never
				// reach the room loop.
				writeEnvelope(r.Context(), conn, protocol.BuildAttempt(false, err.Error(), ""), opts.WriteTimeout)
				continue
			}
			if env.Sender != protocol.SenderFrontend {
				writeEnvelope(r.Context(), conn, protocol.BuildAttempt(false, "invalid sender", env.RequestID), opts.WriteTimeout)
				continue
			}

			rm.Inbox() <- room.FromPlayer{PlayerID: identity.PlayerID, Env: env}
		}
	}
}

// HostHandler serves GET /ws/host?code=. The host endpoint owns the room's
// lifetime: the room is created on attach and torn down when the host goes
// away.
func HostHandler(h *hub.Hub, log *zap.Logger, opts Options) http.HandlerFunc {
	opts = opts.withDefaults()
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "failed to open room", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		hostLog := log.With(zap.String("room", code))
		hostLog.Info("host connected")

		out := make(chan protocol.Envelope, 8)
		rm.Inbox() <- room.AttachHost{Outbox: out}
		defer func() { rm.Inbox() <- room.DetachHost{} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go writeLoop(writeCtx, conn, out, opts.WriteTimeout)

		for {
			ctx, cancel := context.WithTimeout(r.Context(), opts.IdleTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				hostLog.Info("host disconnected")
				return
			}

			env, err := protocol.Parse(data)
			if err != nil {
				writeEnvelope(r.Context(), conn, protocol.BuildAttempt(false, err.Error(), ""), opts.WriteTimeout)
				continue
			}
			rm.Inbox() <- room.FromHost{Env: env}
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan protocol.Envelope, timeout time.Duration) {
	for env := range out {
		writeEnvelope(ctx, conn, env, timeout)
	}
}

func writeEnvelope(ctx context.Context, conn *websocket.Conn, env protocol.Envelope, timeout time.Duration) {
	if errors.Is(ctx.Err(), context.Canceled) {
		return
	}
	payload, err := env.Marshal()
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	_ = conn.Write(wctx, websocket.MessageText, payload)
	cancel()
}
