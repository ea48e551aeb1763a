package models

import (
	"fmt"
	"time"
)

// Event names published to live subscribers
const (
	EventResultCreated    = "result_created"
	EventResultUpdated    = "result_updated"
	EventResultDeleted    = "result_deleted"
	EventPartyCreated     = "party_created"
	EventDistrictCreated  = "district_created"
	EventCandidateCreated = "candidate_created"
	EventSnapshot         = "snapshot"
)

// Summary defaults
const (
	DefaultTotalSeats = 275
	DefaultPartyColor = "#94A3B8"
)

// IndependentPartyID attributes seats won by candidates without a party.
const IndependentPartyID = "independent"

// Roles understood by the auth gateway
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// UnitKey identifies one electoral unit.
type UnitKey struct {
	DistrictID   string `json:"district"`
	Constituency int    `json:"constituency"`
	ElectionYear int    `json:"election_year"`
}

func (k UnitKey) String() string {
	return fmt.Sprintf("%s/%d/%d", k.DistrictID, k.Constituency, k.ElectionYear)
}

// Request types

type TallyInput struct {
	CandidateID string `json:"candidate"`
	Votes       int64  `json:"votes"`
}

// SubmitResultRequest is the body of POST /results.
// Winner, runner-up, margin, positions and percentages are always derived.
type SubmitResultRequest struct {
	DistrictID    string       `json:"district"`
	Constituency  int          `json:"constituency"`
	ElectionYear  int          `json:"election_year"`
	ElectionType  string       `json:"election_type,omitempty"`
	Candidates    []TallyInput `json:"candidates"`
	TotalVotes    int64        `json:"total_votes"`
	RejectedVotes int64        `json:"rejected_votes"`
	Turnout       *float64     `json:"turnout,omitempty"`
}

func (r SubmitResultRequest) Key() UnitKey {
	return UnitKey{DistrictID: r.DistrictID, Constituency: r.Constituency, ElectionYear: r.ElectionYear}
}

type CreatePartyRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CreateDistrictRequest struct {
	Name     string `json:"name"`
	Province string `json:"province"`
}

type CreateCandidateRequest struct {
	Name         string `json:"name"`
	PartyID      string `json:"party"`
	DistrictID   string `json:"district"`
	Constituency int    `json:"constituency"`
	ElectionYear int    `json:"election_year"`
}

// Response types

type SubmitResultResponse struct {
	Created bool           `json:"created"`
	Result  ResolvedResult `json:"result"`
}

type RecomputeResponse struct {
	Summary NationalSummary `json:"summary"`
}

// Domain types

type CandidateTally struct {
	CandidateID string  `json:"candidate"`
	Votes       int64   `json:"votes"`
	Percentage  float64 `json:"percentage"`
	Position    int     `json:"position"` // 1-indexed
}

// Result is the stored outcome for one electoral unit.
type Result struct {
	Key           UnitKey          `json:"key"`
	ElectionType  string           `json:"election_type,omitempty"`
	Candidates    []CandidateTally `json:"candidates"`
	WinnerID      string           `json:"winner"`
	WinnerPartyID string           `json:"winner_party"`
	RunnerUpID    string           `json:"runner_up,omitempty"`
	Margin        int64            `json:"margin"`
	TotalVotes    int64            `json:"total_votes"`
	RejectedVotes int64            `json:"rejected_votes"`
	Turnout       *float64         `json:"turnout,omitempty"`
	Version       int64            `json:"version"`
	LastUpdated   time.Time        `json:"last_updated"`
}

type Party struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type District struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Province string `json:"province,omitempty"`
}

type Candidate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PartyID      string `json:"party,omitempty"`
	DistrictID   string `json:"district,omitempty"`
	Constituency int    `json:"constituency,omitempty"`
	ElectionYear int    `json:"election_year,omitempty"`
}

// Resolved (display) types. Every query and event uses this one shape.

type PartyRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CandidateRef struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Party PartyRef `json:"party"`
}

type DistrictRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ResolvedTally struct {
	Candidate  CandidateRef `json:"candidate"`
	Votes      int64        `json:"votes"`
	Percentage float64      `json:"percentage"`
	Position   int          `json:"position"`
}

type ResolvedResult struct {
	District       DistrictRef     `json:"district"`
	Constituency   int             `json:"constituency"`
	ElectionYear   int             `json:"election_year"`
	ElectionType   string          `json:"election_type,omitempty"`
	Candidates     []ResolvedTally `json:"candidates"`
	Winner         *CandidateRef   `json:"winner"`
	RunnerUp       *CandidateRef   `json:"runner_up,omitempty"`
	Margin         int64           `json:"margin"`
	MarginText     string          `json:"margin_text"`
	TotalVotes     int64           `json:"total_votes"`
	TotalVotesText string          `json:"total_votes_text"`
	RejectedVotes  int64           `json:"rejected_votes"`
	Turnout        *float64        `json:"turnout,omitempty"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// Aggregate types

type PartySeats struct {
	Name     string `json:"name"`
	SeatsWon int    `json:"seats"`
	Color    string `json:"color"`
}

// NationalSummary is derived from the stored results and never persisted.
type NationalSummary struct {
	TotalSeats  int                   `json:"total_seats"`
	Counted     int                   `json:"counted"`
	Parties     map[string]PartySeats `json:"parties"`
	LastUpdated time.Time             `json:"last_updated"`
}

// Snapshot is sent to a live subscriber right after it connects.
type Snapshot struct {
	Summary NationalSummary  `json:"summary"`
	Live    []ResolvedResult `json:"live"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
