package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/teslashibe/go-wakeword/pkg/bus"
)

func newTestServer(stats StatsFunc) (*Server, *atomic.Bool) {
	privacy := &atomic.Bool{}
	h := bus.NewHub(bus.NewTopics("wakeword"), privacy, nil)
	return NewServer(":0", h, privacy, stats, nil), privacy
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(nil)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServer_Stats(t *testing.T) {
	s, _ := newTestServer(func() map[string]interface{} {
		return map[string]interface{}{
			"listener": map[string]interface{}{"frames_processed": 42},
		}
	})

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if _, ok := body["listener"]; !ok {
		t.Errorf("expected listener stats in %v", body)
	}
}

func TestServer_PrivacyToggle(t *testing.T) {
	s, privacy := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/privacy",
		bytes.NewReader([]byte(`{"enabled":true}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !privacy.Load() {
		t.Error("expected privacy mode on")
	}

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/api/privacy", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !body.Enabled {
		t.Error("expected GET to reflect the toggle")
	}
}

func TestServer_PrivacyRejectsBadBody(t *testing.T) {
	s, privacy := newTestServer(nil)
	privacy.Store(true)

	req := httptest.NewRequest(http.MethodPost, "/api/privacy",
		bytes.NewReader([]byte(`garbage`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if !privacy.Load() {
		t.Error("bad body must not change privacy mode")
	}
}
