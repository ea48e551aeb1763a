// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/live-results/aggregate"
	"github.com/danielhkuo/live-results/broadcast"
	"github.com/danielhkuo/live-results/cliparse"
	"github.com/danielhkuo/live-results/directory"
	"github.com/danielhkuo/live-results/ingest"
	"github.com/danielhkuo/live-results/models"
	"github.com/danielhkuo/live-results/store"
	"github.com/danielhkuo/live-results/testutil"
)

// testEnv wires the handlers against a seeded SQLite database
type testEnv struct {
	cfg       cliparse.Config
	store     store.ResultStore
	engine    *aggregate.Engine
	hub       *broadcast.Hub
	results   *ResultsHandler
	directory *DirectoryHandler
	events    *EventsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.SeedReferenceData(t, db)
	cfg := testutil.GetTestConfig()

	dir, err := directory.NewCached(directory.NewSQL(db), cfg.DirectoryCacheSize)
	if err != nil {
		t.Fatal(err)
	}
	resolver := directory.NewResolver(dir, dir, dir, nil)
	st := store.NewSQL(db, nil)
	engine := aggregate.NewEngine(cfg.TotalSeats, st, resolver, nil)
	hub := broadcast.NewHub(cfg.SubscriberBuffer, nil)
	t.Cleanup(hub.Close)
	gateway := ingest.NewGateway(st, engine, resolver, dir, hub, cfg.MaxSubmitAttempts, nil)

	return &testEnv{
		cfg:       cfg,
		store:     st,
		engine:    engine,
		hub:       hub,
		results:   NewResultsHandler(st, engine, gateway, resolver, cfg),
		directory: NewDirectoryHandler(dir, hub),
		events:    NewEventsHandler(hub, st, engine, resolver, cfg),
	}
}

func submitRequest(district string, constituency, year int, pairs ...any) models.SubmitResultRequest {
	req := models.SubmitResultRequest{DistrictID: district, Constituency: constituency, ElectionYear: year}
	for i := 0; i < len(pairs); i += 2 {
		req.Candidates = append(req.Candidates, models.TallyInput{
			CandidateID: pairs[i].(string),
			Votes:       int64(pairs[i+1].(int)),
		})
	}
	return req
}

// submit posts a result straight to the handler
func (e *testEnv) submit(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.MakeRequest("POST", "/results", body, nil)
	w := httptest.NewRecorder()
	e.results.Submit(w, req)
	return w
}

func withUnitPath(req *http.Request, district, constituency, year string) *http.Request {
	req.SetPathValue("districtId", district)
	req.SetPathValue("constituency", constituency)
	req.SetPathValue("year", year)
	return req
}
