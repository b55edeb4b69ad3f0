package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/medicare/portal/internal/core/domain"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Session.Backend != BackendRedis {
		t.Fatalf("unexpected defaults: port=%s backend=%s", cfg.Port, cfg.Session.Backend)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.Session.TTL)
	}
	if cfg.Session.Secret == "" {
		t.Fatalf("development should fall back to a secret")
	}

	urls := cfg.Services.ByBackend()
	if len(urls) != len(domain.Backends) {
		t.Fatalf("expected %d service urls, got %d", len(domain.Backends), len(urls))
	}
	if urls[domain.BackendIdentity] != "http://localhost:8000/api/user" {
		t.Fatalf("identity url: %s", urls[domain.BackendIdentity])
	}
	if urls[domain.BackendAppointments] != "http://localhost:8004/api" {
		t.Fatalf("appointments url: %s", urls[domain.BackendAppointments])
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PATIENT_SERVICE_URL": "http://patients.internal/api",
		"SESSION_BACKEND":     "memory",
		"TIME_ZONE":           "Asia/Bangkok",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Services.ByBackend()[domain.BackendPatient] != "http://patients.internal/api" {
		t.Fatalf("override not applied")
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Bangkok" {
		t.Fatalf("location: %v %v", loc, err)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":             "production",
		"SESSION_BACKEND": "cassandra",
	}))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"SESSION_BACKEND", "SESSION_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should mention %s", err, want)
		}
	}
}
