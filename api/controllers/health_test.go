package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/petcareclinic/petcare-backend/pkg/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	rec := serve(t, nil, http.MethodGet, "/health/live", "/health/live", "", HealthLive(cfg))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Petcare-Env") != "dev" {
		t.Fatal("missing env header")
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := serve(t, nil, http.MethodGet, "/health/ready", "/health/ready", "", HealthReady(cfg, nil, map[string]Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(t, nil, http.MethodGet, "/health/ready", "/health/ready", "", HealthReady(cfg, nil, map[string]Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: errors.New("connection refused")},
	}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
