package shared

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_MODE", "CACHE_TTL_SECONDS", "REMOTE_SOFT_READ_FAIL", "REDIS_ADDR", "SEED_WORKERS", "REQUEST_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}
	c := fromEnv()
	if c.StoreMode != StoreStatic {
		t.Fatalf("store mode: %q", c.StoreMode)
	}
	if c.CacheTTL != 5*time.Minute || c.RemoteSoftReadFail || c.RedisAddr != "" || c.SeedWorkers != 4 || c.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_MODE", "Remote")
	t.Setenv("APPER_PROJECT_ID", "p")
	t.Setenv("APPER_PUBLIC_KEY", "k")
	t.Setenv("REMOTE_SOFT_READ_FAIL", "true")
	t.Setenv("STATIC_LATENCY_MS", "250")
	t.Setenv("CACHE_TTL_SECONDS", "nope")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, ,https://homes.example")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "40")

	c := fromEnv()
	if c.StoreMode != StoreRemote || !c.RemoteSoftReadFail {
		t.Fatalf("unexpected: %+v", c)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://homes.example" {
		t.Fatalf("origins: %v", c.CORSOrigins)
	}
	if c.RequestTimeout != 40*time.Second {
		t.Fatalf("request timeout: %v", c.RequestTimeout)
	}
	if c.StaticLatency != 250*time.Millisecond {
		t.Fatalf("latency: %v", c.StaticLatency)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Fatalf("bad integer should fall back to default, got %v", c.CacheTTL)
	}
}

func TestFromEnv_UnknownModeFallsBack(t *testing.T) {
	t.Setenv("STORE_MODE", "sqlite")
	if c := fromEnv(); c.StoreMode != StoreStatic {
		t.Fatalf("expected static fallback, got %q", c.StoreMode)
	}
}

func TestFromEnv_NonPositiveTimeoutFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "0")
	if c := fromEnv(); c.RequestTimeout != 15*time.Second {
		t.Fatalf("expected 15s fallback, got %v", c.RequestTimeout)
	}
}
