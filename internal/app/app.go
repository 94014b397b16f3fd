// Package app assembles the client engine from configuration: session store
// backend, API client, entity cache, state store and flows. Construction
// happens once at startup; every component receives its collaborators
// explicitly.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Jacqui87/person-management-extension-sub000/internal/app/flow"
	"github.com/Jacqui87/person-management-extension-sub000/internal/app/state"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/cache"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/ports"
	"github.com/Jacqui87/person-management-extension-sub000/internal/infrastructure/api"
	"github.com/Jacqui87/person-management-extension-sub000/internal/infrastructure/session"
	"github.com/Jacqui87/person-management-extension-sub000/internal/pkg/config"
	"github.com/Jacqui87/person-management-extension-sub000/pkg/logger"
)

// Build wires the engine against cfg and returns the flow the view layer
// drives. The returned flow is ready for Bootstrap.
func Build(ctx context.Context, cfg *config.Config) (*flow.Flow, error) {
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	sessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := api.NewClient(cfg.BaseURL, httpClient, sessions, log)
	entities := cache.New(client, log)
	store := state.NewStore()

	log.Info().Str("base_url", cfg.BaseURL).Str("session_backend", cfg.Session.Backend).Msg("engine assembled")
	return flow.New(store, client, entities, sessions, log), nil
}

func buildSessionStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, error) {
	switch cfg.Session.Backend {
	case "", "file":
		return session.NewFileStore(cfg.Session.TokenPath)
	case "redis":
		rdb, err := session.Connect(ctx, session.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(rdb), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
