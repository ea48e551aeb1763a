// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/live-results/aggregate"
	"github.com/danielhkuo/live-results/auth"
	"github.com/danielhkuo/live-results/broadcast"
	"github.com/danielhkuo/live-results/cliparse"
	"github.com/danielhkuo/live-results/directory"
	"github.com/danielhkuo/live-results/ingest"
	"github.com/danielhkuo/live-results/store"
)

// Services holds the long-lived components the handlers share.
type Services struct {
	Store     store.ResultStore
	Directory directory.Directory
	Resolver  *directory.Resolver
	Engine    *aggregate.Engine
	Hub       *broadcast.Hub
	Gateway   *ingest.Gateway
	Auth      *auth.JWT
}

// NewServices wires the components. A nil conn selects the in-memory store
// and directory. The aggregate is rebuilt from the store before returning.
func NewServices(ctx context.Context, conn *sql.DB, cfg cliparse.Config) (*Services, error) {
	logger := slog.Default()

	var (
		st    store.ResultStore
		inner directory.Directory
	)
	if conn == nil {
		st = store.NewMemory()
		inner = directory.NewMemory()
	} else {
		st = store.NewSQL(conn, logger.With("component", "store"))
		inner = directory.NewSQL(conn)
	}

	dir, err := directory.NewCached(inner, cfg.DirectoryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("directory cache: %w", err)
	}

	resolver := directory.NewResolver(dir, dir, dir, logger.With("component", "resolver"))
	engine := aggregate.NewEngine(cfg.TotalSeats, st, resolver, logger.With("component", "aggregate"))
	hub := broadcast.NewHub(cfg.SubscriberBuffer, logger.With("component", "broadcast"))
	gateway := ingest.NewGateway(st, engine, resolver, dir, hub, cfg.MaxSubmitAttempts, logger.With("component", "ingest"))

	if err := engine.Recompute(ctx); err != nil {
		return nil, fmt.Errorf("initial aggregate: %w", err)
	}

	return &Services{
		Store:     st,
		Directory: dir,
		Resolver:  resolver,
		Engine:    engine,
		Hub:       hub,
		Gateway:   gateway,
		Auth:      auth.NewJWT(cfg.JWTSecret),
	}, nil
}
