package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/virusthegame/backend/internal/hub"
	"github.com/virusthegame/backend/internal/store"
	"github.com/virusthegame/backend/internal/ws"
)

// Deps is everything the router needs injected.
type Deps struct {
	Hub      *hub.Hub
	Store    store.Store
	Identity ws.IdentityResolver
	Log      *zap.Logger
	WSOpts   ws.Options
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(d.Hub, d.Log))
	r.Get("/healthz", Healthz)

	r.Post("/players", RegisterPlayer(d.Store))
	r.Get("/players/{nickname}", GetPlayer(d.Store))
	r.Get("/games", ListGames(d.Store))

	r.Get("/ws", ws.PlayerHandler(d.Hub, d.Identity, d.Log, d.WSOpts))
	r.Get("/ws/host", ws.HostHandler(d.Hub, d.Log, d.WSOpts))
	return r
}
