// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/live-results/directory"
	"github.com/danielhkuo/live-results/ingest"
	"github.com/danielhkuo/live-results/middleware"
	"github.com/danielhkuo/live-results/models"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// DirectoryHandler serves the reference data: parties, districts and
// candidates. Creates are announced to live subscribers.
type DirectoryHandler struct {
	dir       directory.Directory
	publisher ingest.Publisher
}

func NewDirectoryHandler(dir directory.Directory, publisher ingest.Publisher) *DirectoryHandler {
	return &DirectoryHandler{dir: dir, publisher: publisher}
}

// ListParties handles GET /parties
func (h *DirectoryHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.dir.ListParties(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, parties)
}

// CreateParty handles POST /parties (admin)
func (h *DirectoryHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Color == "" {
		req.Color = models.DefaultPartyColor
	}
	if !hexColor.MatchString(req.Color) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "color must look like #RRGGBB")
		return
	}

	party := models.Party{ID: uuid.NewString(), Name: req.Name, Color: req.Color}
	if err := h.dir.CreateParty(r.Context(), party); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("party created", "party_id", party.ID, "name", party.Name)
	h.publisher.Publish(models.EventPartyCreated, party)
	middleware.JSONResponse(w, http.StatusCreated, party)
}

// ListDistricts handles GET /districts
func (h *DirectoryHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.dir.ListDistricts(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, districts)
}

// CreateDistrict handles POST /districts (admin)
func (h *DirectoryHandler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDistrictRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	district := models.District{ID: uuid.NewString(), Name: req.Name, Province: strings.TrimSpace(req.Province)}
	if err := h.dir.CreateDistrict(r.Context(), district); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("district created", "district_id", district.ID, "name", district.Name)
	h.publisher.Publish(models.EventDistrictCreated, district)
	middleware.JSONResponse(w, http.StatusCreated, district)
}

// ListCandidates handles GET /candidates?district=ID
func (h *DirectoryHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.dir.ListCandidates(r.Context(), r.URL.Query().Get("district"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// CreateCandidate handles POST /candidates (admin)
// The party and district, when given, must already exist
func (h *DirectoryHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Constituency < 0 || req.ElectionYear < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "constituency and election_year must not be negative")
		return
	}

	ctx := r.Context()
	if req.PartyID != "" && req.PartyID != models.IndependentPartyID {
		if _, err := h.dir.ResolveParty(ctx, req.PartyID); err != nil {
			middleware.WriteError(w, unknownReference("party", err))
			return
		}
	}
	if req.DistrictID != "" {
		if _, err := h.dir.ResolveDistrict(ctx, req.DistrictID); err != nil {
			middleware.WriteError(w, unknownReference("district", err))
			return
		}
	}

	candidate := models.Candidate{
		ID:           uuid.NewString(),
		Name:         req.Name,
		PartyID:      req.PartyID,
		DistrictID:   req.DistrictID,
		Constituency: req.Constituency,
		ElectionYear: req.ElectionYear,
	}
	if candidate.PartyID == models.IndependentPartyID {
		candidate.PartyID = ""
	}
	if err := h.dir.CreateCandidate(ctx, candidate); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("candidate created", "candidate_id", candidate.ID, "party_id", candidate.PartyID)
	h.publisher.Publish(models.EventCandidateCreated, candidate)
	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// unknownReference reports a missing party or district as bad input
func unknownReference(what string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w: unknown %s", models.ErrValidation, what)
	}
	return err
}
