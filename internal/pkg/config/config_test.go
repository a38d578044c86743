package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreDriver != DriverPostgres || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":   "mongo",
		"TOKEN_TTL":      "90m",
		"MONGO_DB":       "hr",
		"ADMIN_PASSWORD": "admin123",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.StoreDriver != DriverMongo || cfg.TokenTTL != 90*time.Minute || cfg.Mongo.Database != "hr" || cfg.Admin.Password != "admin123" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "sqlite"}))
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
