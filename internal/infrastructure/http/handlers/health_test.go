package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestLiveness_ReportsUptime(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHealthHandler(started)
	h.now = func() time.Time { return started.Add(90 * time.Second) }

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)

	if err := h.Liveness(c); err != nil {
		t.Fatalf("liveness: %v", err)
	}
	var body livenessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || body.Status != "ok" || body.UptimeSeconds != 90 {
		t.Fatalf("unexpected response %d %+v", rec.Code, body)
	}
}

func TestReadiness(t *testing.T) {
	cases := []struct {
		name     string
		deps     map[string]Pinger
		wantCode int
	}{
		{"all ok", map[string]Pinger{"mongodb": stubPinger{}, "redis": stubPinger{}}, http.StatusOK},
		{"redis down", map[string]Pinger{"mongodb": stubPinger{}, "redis": stubPinger{err: errors.New("refused")}}, http.StatusServiceUnavailable},
		{"redis disabled", map[string]Pinger{"mongodb": stubPinger{}, "redis": nil}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health/ready", nil), rec)

			if err := NewHealthDependenciesHandler(tc.deps).Readiness(c); err != nil {
				t.Fatalf("readiness: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}
