package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/virusthegame/backend/internal/config"
	"github.com/virusthegame/backend/internal/httpapi"
	"github.com/virusthegame/backend/internal/hub"
	"github.com/virusthegame/backend/internal/store"
	"github.com/virusthegame/backend/internal/ws"
)

// identity adapts the store to the websocket layer's resolver interface.
type identity struct {
	st store.Store
}

func (i identity) Identify(ctx context.Context, token string) (ws.Identity, error) {
	rec, err := i.st.ResolveToken(ctx, token)
	if err != nil {
		return ws.Identity{}, err
	}
	return ws.Identity{PlayerID: rec.ID, Name: rec.Nickname}, nil
}

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var st store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("opening store", zap.Error(err))
		}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, st, logger)

	handler := httpapi.SetupRoutes(httpapi.Deps{
		Hub:      h,
		Store:    st,
		Identity: identity{st: st},
		Log:      logger,
		WSOpts: ws.Options{
			OriginPatterns: cfg.AllowedOrigins,
			IdleTimeout:    cfg.IdleTimeout,
		},
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
