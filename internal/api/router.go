package api

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	_ "github.com/rohits-web03/optivus/docs"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rohits-web03/optivus/internal/api/handlers"
	"github.com/rohits-web03/optivus/internal/api/middleware"
	"github.com/rohits-web03/optivus/internal/auth"
	"github.com/rohits-web03/optivus/internal/config"
	"github.com/rs/cors"
)

func SetupRouter(cfg config.Config, h *handlers.Handler, provider *auth.Provider, logger *log.Logger) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)
	requireSession := middleware.RequireSession(provider, logger)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)
	mainMux.HandleFunc("GET /api/v1/config/status", h.ConfigStatus)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /sign-up", h.SignUp)
	authMux.HandleFunc("POST /login", h.Login)
	authMux.HandleFunc("GET /oauth/google", h.GoogleLogin)
	authMux.HandleFunc("GET /callback", h.OAuthCallback)
	authMux.HandleFunc("POST /forgot-password", h.ForgotPassword)
	authMux.HandleFunc("POST /update-password", h.UpdatePassword)

	// session routes share the auth prefix
	authMux.Handle("GET /me", requireSession(http.HandlerFunc(h.Me)))
	authMux.Handle("POST /logout", requireSession(http.HandlerFunc(h.Logout)))
	authMux.Handle("GET /events", requireSession(http.HandlerFunc(h.Events)))

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("GET /files", h.ListFiles)
	protectedMux.HandleFunc("POST /files", h.UploadFiles)
	protectedMux.HandleFunc("PATCH /files/{id}/star", h.StarFile)
	protectedMux.HandleFunc("PATCH /files/{id}", h.RenameFile)
	protectedMux.HandleFunc("DELETE /files/{id}", h.DeleteFile)
	protectedMux.HandleFunc("GET /files/{id}/download", h.DownloadFile)

	protectedMux.HandleFunc("GET /folders", h.ListFolders)
	protectedMux.HandleFunc("POST /folders", h.CreateFolder)

	protectedMux.HandleFunc("GET /dashboard", h.Dashboard)
	protectedMux.HandleFunc("POST /chat", h.Chat)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			requireSession(protectedMux),
		),
	)

	logger.Debug("router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Recover(logger)(handler)
	handler = middleware.Logger(logger)(handler)
	return otelhttp.NewHandler(handler, cfg.ServiceName)
}
