package config

import (
	"context"
	"strings"
	"testing"
)

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load(context.Background())
	if err == nil {
		t.Fatal("expected an error when JWT_SECRET is unset")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load(context.Background())
	if err == nil {
		t.Fatal("expected an error for a short JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port default = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level default = %q, want info", cfg.LogLevel)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("mongo uri default = %q", cfg.Mongo.URI)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr default = %q", cfg.Redis.Addr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_DB", "teamtrack_test")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.Mongo.Database != "teamtrack_test" {
		t.Errorf("mongo db = %q, want teamtrack_test", cfg.Mongo.Database)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("redis db = %d, want 3", cfg.Redis.DB)
	}
}
