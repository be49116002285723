package services

import (
	"testing"

	"github.com/rohits-web03/optivus/internal/config"
)

func TestGoogleOAuthConfig(t *testing.T) {
	if GoogleOAuthConfig(config.OAuthConfig{}) != nil {
		t.Fatal("expected nil without a client id")
	}
	cfg := GoogleOAuthConfig(config.OAuthConfig{
		GoogleClientID: "id",
		RedirectURL:    "http://localhost:8080/api/v1/auth/callback",
	})
	if cfg == nil || cfg.ClientID != "id" || cfg.RedirectURL != "http://localhost:8080/api/v1/auth/callback" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.Scopes) != 2 {
		t.Fatalf("scopes = %v", cfg.Scopes)
	}
}
