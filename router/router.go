// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/live-results/cliparse"
	"github.com/danielhkuo/live-results/handlers"
	"github.com/danielhkuo/live-results/middleware"
	"github.com/danielhkuo/live-results/models"
)

func NewRouter(svc *Services, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	resultsHandler := handlers.NewResultsHandler(svc.Store, svc.Engine, svc.Gateway, svc.Resolver, cfg)
	directoryHandler := handlers.NewDirectoryHandler(svc.Directory, svc.Hub)
	eventsHandler := handlers.NewEventsHandler(svc.Hub, svc.Store, svc.Engine, svc.Resolver, cfg)

	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireRole(svc.Auth, models.RoleAdmin, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Result queries (public)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.List))
	mux.HandleFunc("GET /results/live", middleware.WithLogging(resultsHandler.Live))
	mux.HandleFunc("GET /results/national-summary", middleware.WithLogging(resultsHandler.NationalSummary))
	mux.HandleFunc("GET /results/district/{districtId}", middleware.WithLogging(resultsHandler.ByDistrict))
	mux.HandleFunc("GET /results/{districtId}/{constituency}/{year}", middleware.WithLogging(resultsHandler.Get))

	// Result ingestion (admin)
	mux.HandleFunc("POST /results", admin(resultsHandler.Submit))
	mux.HandleFunc("DELETE /results/{districtId}/{constituency}/{year}", admin(resultsHandler.Delete))
	mux.HandleFunc("POST /results/recompute", admin(resultsHandler.Recompute))

	// Reference data (reads public, writes admin)
	mux.HandleFunc("GET /parties", middleware.WithLogging(directoryHandler.ListParties))
	mux.HandleFunc("POST /parties", admin(directoryHandler.CreateParty))
	mux.HandleFunc("GET /districts", middleware.WithLogging(directoryHandler.ListDistricts))
	mux.HandleFunc("POST /districts", admin(directoryHandler.CreateDistrict))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(directoryHandler.ListCandidates))
	mux.HandleFunc("POST /candidates", admin(directoryHandler.CreateCandidate))

	// Live events (public)
	mux.HandleFunc("GET /events", eventsHandler.Stream)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("live-results API v1"))
	})

	return mux
}
