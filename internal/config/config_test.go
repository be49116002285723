package config

import (
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("LIST_TIMEOUT", "")
	t.Setenv("UPLOAD_MAX_MB", "")

	cfg, loaded := Load()
	if loaded {
		t.Fatal("expected no env file to be loaded")
	}
	if cfg.Storage.BucketName != DefaultBucket {
		t.Errorf("bucket = %q, want %q", cfg.Storage.BucketName, DefaultBucket)
	}
	if cfg.ListTimeout != 5*time.Second {
		t.Errorf("list timeout = %v", cfg.ListTimeout)
	}
	if cfg.UploadMaxBytes != 100<<20 {
		t.Errorf("upload max = %d", cfg.UploadMaxBytes)
	}
}

func TestMissingBackend(t *testing.T) {
	cfg := Config{}
	got := cfg.MissingBackend()
	if !slices.Equal(got, []string{"DB_URL", "STORAGE_ACCESS_KEY_ID"}) {
		t.Fatalf("missing = %v", got)
	}

	cfg.DB_URL = "postgres://localhost/optivus"
	cfg.Storage.AccessKeyID = "key"
	if got := cfg.MissingBackend(); len(got) != 0 {
		t.Fatalf("missing = %v, want none", got)
	}
}

func TestFrontendURLTrailingSlash(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("FRONTEND_URL", "https://drive.example.com/")

	cfg, _ := Load()
	if cfg.FrontendURL != "https://drive.example.com" {
		t.Fatalf("frontend = %q", cfg.FrontendURL)
	}
	if !slices.Contains(cfg.CorsConfig.AllowedOrigins, "https://drive.example.com") {
		t.Fatalf("cors origins = %v", cfg.CorsConfig.AllowedOrigins)
	}
}
