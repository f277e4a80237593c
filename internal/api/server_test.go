package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tutorboard/pkg/interfaces"
	"tutorboard/pkg/types"
)

type fakeDirectory struct {
	healthErr error
}

func (d *fakeDirectory) HealthCheck(context.Context) error { return d.healthErr }

func (d *fakeDirectory) GetUser(context.Context, string) (*types.User, error) {
	return nil, interfaces.ErrUserNotFound
}

func (d *fakeDirectory) FindTeacherPrompt(context.Context) (string, bool, error) {
	return "", false, nil
}

func (d *fakeDirectory) IncrementPoints(context.Context, string, int) error { return nil }
func (d *fakeDirectory) UpsertUser(context.Context, *types.User) error      { return nil }
func (d *fakeDirectory) SetPrompt(context.Context, string, *string) error   { return nil }
func (d *fakeDirectory) Close() error                                       { return nil }

type staticStats map[string]int

func (s staticStats) Stats() map[string]int { return s }

func doRequest(t *testing.T, server *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	return body
}

func TestServer_HealthHealthy(t *testing.T) {
	server := NewServer(&fakeDirectory{}, staticStats{}, staticStats{})

	rec := doRequest(t, server, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "healthy" {
		t.Errorf("unexpected status %v", body["status"])
	}
	if body["timestamp"] == nil {
		t.Error("missing timestamp")
	}
}

func TestServer_HealthUnhealthy(t *testing.T) {
	server := NewServer(&fakeDirectory{healthErr: errors.New("database gone")}, staticStats{}, staticStats{})

	rec := doRequest(t, server, http.MethodGet, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "unhealthy" {
		t.Errorf("unexpected status %v", body["status"])
	}
}

func TestServer_Stats(t *testing.T) {
	registry := staticStats{"total_connections": 3}
	rooms := staticStats{"active_rooms": 2, "memberships": 5}
	server := NewServer(&fakeDirectory{}, registry, rooms)

	rec := doRequest(t, server, http.MethodGet, "/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	conns, ok := body["connections"].(map[string]interface{})
	if !ok || conns["total_connections"] != float64(3) {
		t.Errorf("unexpected connections %v", body["connections"])
	}
	roomStats, ok := body["rooms"].(map[string]interface{})
	if !ok || roomStats["active_rooms"] != float64(2) {
		t.Errorf("unexpected rooms %v", body["rooms"])
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	server := NewServer(&fakeDirectory{}, staticStats{}, staticStats{})

	for _, path := range []string{"/health", "/stats"} {
		rec := doRequest(t, server, http.MethodPost, path)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", path, rec.Code)
		}
	}
}
