package statusapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ServerWatch/conn-monitor/internal/domain"
	"github.com/ServerWatch/conn-monitor/internal/mapping"
)

type staticSource struct {
	result domain.PollResult
}

func (s *staticSource) Current() domain.PollResult { return s.result }

func TestHandleStatus_Found(t *testing.T) {
	source := &staticSource{result: domain.PollResult{
		Status: domain.StatusFound,
		Record: &domain.ConnectionRecord{
			Region:        "EastUs",
			ServerID:      "srv-9",
			SessionID:     "abc123",
			ServerAddress: "203.0.113.5:7777",
		},
		PolledAt: time.Now(),
	}}

	regions := &mapping.RegionMap{Regions: map[string]mapping.RegionInfo{
		"EastUs": {Name: "US East"},
	}}
	server := NewServer(":0", source, nil, regions)

	rec := httptest.NewRecorder()
	server.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}

	var resp statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "found" {
		t.Errorf("status = %q, want found", resp.Status)
	}
	if resp.Record == nil {
		t.Fatal("expected a record in the response")
	}
	if resp.Record.RegionName != "US East" {
		t.Errorf("region_name = %q, want US East", resp.Record.RegionName)
	}
	if resp.Record.ServerAddress != "203.0.113.5:7777" {
		t.Errorf("server_address = %q", resp.Record.ServerAddress)
	}
}

func TestHandleStatus_NegativeOutcome(t *testing.T) {
	source := &staticSource{result: domain.PollResult{
		Status:   domain.StatusUnavailable,
		Reason:   "sharing violation",
		PolledAt: time.Now(),
	}}
	server := NewServer(":0", source, nil, nil)

	rec := httptest.NewRecorder()
	server.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var resp statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "unavailable" {
		t.Errorf("status = %q, want unavailable", resp.Status)
	}
	if resp.Record != nil {
		t.Error("no record expected on a negative outcome")
	}
}

func TestHandleHistory_Disabled(t *testing.T) {
	server := NewServer(":0", &staticSource{}, nil, nil)

	rec := httptest.NewRecorder()
	server.handleHistory(rec, httptest.NewRequest(http.MethodGet, "/history", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status code = %d, want 404 when journal is disabled", rec.Code)
	}
}

func TestHandleStatus_MethodNotAllowed(t *testing.T) {
	server := NewServer(":0", &staticSource{}, nil, nil)

	rec := httptest.NewRecorder()
	server.handleStatus(rec, httptest.NewRequest(http.MethodPost, "/status", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status code = %d, want 405", rec.Code)
	}
}
