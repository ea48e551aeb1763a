// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/live-results/aggregate"
	"github.com/danielhkuo/live-results/cliparse"
	"github.com/danielhkuo/live-results/directory"
	"github.com/danielhkuo/live-results/ingest"
	"github.com/danielhkuo/live-results/middleware"
	"github.com/danielhkuo/live-results/models"
	"github.com/danielhkuo/live-results/store"
)

// maxLiveLimit caps GET /results/live?limit=N
const maxLiveLimit = 100

type ResultsHandler struct {
	store    store.ResultStore
	engine   *aggregate.Engine
	gateway  *ingest.Gateway
	resolver *directory.Resolver
	cfg      cliparse.Config
}

func NewResultsHandler(st store.ResultStore, engine *aggregate.Engine, gateway *ingest.Gateway, resolver *directory.Resolver, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: st, engine: engine, gateway: gateway, resolver: resolver, cfg: cfg}
}

// List handles GET /results
// Returns every counted unit ordered by district, constituency, year
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.List(r.Context(), store.ListFilter{Order: store.OrderByUnit})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.resolver.FormatAll(r.Context(), results))
}

// Live handles GET /results/live?limit=N
// Returns the most recently updated units, newest first
func (h *ResultsHandler) Live(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.LiveLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLiveLimit)
	}

	results, err := h.store.List(r.Context(), store.ListFilter{Order: store.OrderByLastUpdated, Limit: limit})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.resolver.FormatAll(r.Context(), results))
}

// ByDistrict handles GET /results/district/{districtId}
func (h *ResultsHandler) ByDistrict(w http.ResponseWriter, r *http.Request) {
	districtID := r.PathValue("districtId")
	if districtID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "districtId is required")
		return
	}

	results, err := h.store.ListByDistrict(r.Context(), districtID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.resolver.FormatAll(r.Context(), results))
}

// Get handles GET /results/{districtId}/{constituency}/{year}
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := unitKeyFromPath(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	result, err := h.store.Get(r.Context(), key)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.resolver.Format(r.Context(), result))
}

// NationalSummary handles GET /results/national-summary
func (h *ResultsHandler) NationalSummary(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.engine.Summarize(r.Context()))
}

// Submit handles POST /results (admin)
// 201 when the unit is counted for the first time, 200 on resubmission
func (h *ResultsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitResultRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	key, payload := ingest.PayloadFrom(req)
	out, err := h.gateway.Submit(r.Context(), key, payload)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, models.SubmitResultResponse{Created: out.Created, Result: out.Result})
}

// Delete handles DELETE /results/{districtId}/{constituency}/{year} (admin)
func (h *ResultsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := unitKeyFromPath(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	removed, err := h.gateway.Delete(r.Context(), key)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	if id, ok := middleware.IdentityFrom(r.Context()); ok {
		slog.Info("result removed by operator", "key", key.String(), "subject", id.Subject)
	}
	middleware.JSONResponse(w, http.StatusOK, removed)
}

// Recompute handles POST /results/recompute (admin)
// Rebuilds the national summary from the store
func (h *ResultsHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Recompute(r.Context()); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.RecomputeResponse{Summary: h.engine.Summarize(r.Context())})
}

func unitKeyFromPath(r *http.Request) (models.UnitKey, error) {
	constituency, err := strconv.Atoi(r.PathValue("constituency"))
	if err != nil {
		return models.UnitKey{}, fmt.Errorf("%w: constituency must be an integer", models.ErrValidation)
	}
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return models.UnitKey{}, fmt.Errorf("%w: year must be an integer", models.ErrValidation)
	}
	key := models.UnitKey{DistrictID: r.PathValue("districtId"), Constituency: constituency, ElectionYear: year}
	return key, ingest.ValidateKey(key)
}
