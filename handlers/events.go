// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/live-results/aggregate"
	"github.com/danielhkuo/live-results/broadcast"
	"github.com/danielhkuo/live-results/cliparse"
	"github.com/danielhkuo/live-results/directory"
	"github.com/danielhkuo/live-results/middleware"
	"github.com/danielhkuo/live-results/models"
	"github.com/danielhkuo/live-results/store"
)

type EventsHandler struct {
	hub      *broadcast.Hub
	store    store.ResultStore
	engine   *aggregate.Engine
	resolver *directory.Resolver
	cfg      cliparse.Config
}

func NewEventsHandler(hub *broadcast.Hub, st store.ResultStore, engine *aggregate.Engine, resolver *directory.Resolver, cfg cliparse.Config) *EventsHandler {
	return &EventsHandler{hub: hub, store: st, engine: engine, resolver: resolver, cfg: cfg}
}

// Stream handles GET /events
// Server-Sent Events: a snapshot first, then every change as it happens
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// Subscribe before taking the snapshot so nothing falls between them
	sub, err := h.hub.Subscribe()
	if err != nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Server shutting down")
		return
	}
	defer h.hub.Unsubscribe(sub)

	ctx := r.Context()
	live, err := h.store.List(ctx, store.ListFilter{Order: store.OrderByLastUpdated, Limit: h.cfg.LiveLimit})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	snapshot := models.Snapshot{
		Summary: h.engine.Summarize(ctx),
		Live:    h.resolver.FormatAll(ctx, live),
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	logger := slog.With("subscriber_id", sub.ID, "remote", middleware.GetClientIP(r))
	logger.Info("live subscriber connected", "subscribers", h.hub.Len())
	defer logger.Info("live subscriber disconnected")

	if err := writeEvent(w, uuid.NewString(), models.EventSnapshot, snapshot); err != nil {
		logger.Debug("snapshot write failed", "error", err)
		return
	}
	flusher.Flush()

	interval := h.cfg.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				// dropped for falling behind or hub closed
				logger.Warn("live subscriber closed by hub")
				return
			}
			if err := writeEvent(w, ev.ID, ev.Name, ev.Payload); err != nil {
				logger.Debug("event write failed", "event", ev.Name, "error", err)
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, id, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", name, err)
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", id, name, data)
	return err
}
