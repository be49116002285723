package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rohits-web03/optivus/internal/api/middleware"
	"github.com/rohits-web03/optivus/internal/auth"
	"github.com/rohits-web03/optivus/internal/utils"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	isProd := h.cfg.IsProduction()

	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expires).Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func authStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput), errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, auth.ErrNoSession):
		return http.StatusUnauthorized, "Session is invalid or expired"
	case errors.Is(err, auth.ErrOAuthDisabled):
		return http.StatusServiceUnavailable, "Google sign-in is not configured"
	case errors.Is(err, auth.ErrMailDisabled):
		return http.StatusServiceUnavailable, "Password reset is not available"
	case errors.Is(err, auth.ErrUnavailable):
		return http.StatusServiceUnavailable, "Authentication is not configured"
	}
	return http.StatusInternalServerError, "Authentication service error"
}

func (h *Handler) authFail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := authStatus(err)
	if status >= http.StatusInternalServerError {
		h.reqLogger(r).Error("auth request failed", "path", r.URL.Path, "err", err)
	}
	utils.Fail(w, status, msg)
}

// SignUp godoc
// @Summary Register with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentials true "Email, password and optional display name"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /api/v1/auth/sign-up [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	session, token, err := h.auth.SignUp(r.Context(), input.Email, input.Password, input.Name)
	if err != nil {
		h.authFail(w, r, err)
		return
	}

	h.setSessionCookie(w, token, session.ExpiresAt)
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User registered successfully",
		Data:    session.User,
	})
}

// Login godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentials true "Email and password"
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	session, token, err := h.auth.SignInWithPassword(r.Context(), input.Email, input.Password)
	if err != nil {
		h.authFail(w, r, err)
		return
	}

	h.setSessionCookie(w, token, session.ExpiresAt)
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
		Data:    session.User,
	})
}

// GoogleLogin godoc
// @Summary Start Google sign-in
// @Tags Auth
// @Param flow query string false "signin or signup"
// @Success 307
// @Failure 503 {object} utils.Payload
// @Router /api/v1/auth/oauth/google [get]
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	url, err := h.auth.OAuthURL(r.URL.Query().Get("flow"))
	if err != nil {
		h.authFail(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// OAuthCallback godoc
// @Summary Complete an OAuth redirect
// @Description Exchanges the code for a session and redirects to the app root, or to sign-in on failure.
// @Tags Auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307
// @Router /api/v1/auth/callback [get]
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	failed := h.cfg.FrontendURL + "/auth/signin?error=auth_callback_failed"

	if providerErr := r.FormValue("error"); providerErr != "" {
		h.reqLogger(r).Warn("OAuth provider returned an error", "error", providerErr)
		http.Redirect(w, r, failed, http.StatusTemporaryRedirect)
		return
	}

	res, err := h.auth.ExchangeOAuth(r.Context(), r.FormValue("state"), r.FormValue("code"))
	if err != nil {
		h.reqLogger(r).Error("OAuth callback failed", "err", err)
		http.Redirect(w, r, failed, http.StatusTemporaryRedirect)
		return
	}

	h.setSessionCookie(w, res.Token, res.Session.ExpiresAt)
	h.reqLogger(r).Info("OAuth sign-in", "user", res.Session.User.ID, "flow", res.Flow)
	http.Redirect(w, r, h.cfg.FrontendURL+"/", http.StatusTemporaryRedirect)
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "{\"email\": \"...\"}"
// @Success 200 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /api/v1/auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	redirect := h.cfg.FrontendURL + "/auth/reset-password"
	if err := h.auth.RequestPasswordReset(r.Context(), input.Email, redirect); err != nil {
		h.authFail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "If an account exists for that email, a reset link has been sent",
	})
}

// UpdatePassword godoc
// @Summary Set a new password with a reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "{\"token\": \"...\", \"password\": \"...\"}"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/update-password [post]
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.auth.UpdatePassword(r.Context(), input.Token, input.Password); err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			utils.Fail(w, http.StatusUnauthorized, "Reset link is invalid or expired")
			return
		}
		h.authFail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Password updated",
	})
}

// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Session active",
		Data:    session,
	})
}

// Logout godoc
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	if err := h.auth.SignOut(r.Context(), session); err != nil {
		// the session is already revoked on this instance
		h.reqLogger(r).Warn("sign-out not broadcast", "err", err)
	}

	h.clearSessionCookie(w)
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Events godoc
// @Summary Stream session changes
// @Description Server-sent events; each event is one of SIGNED_IN, SIGNED_OUT, PASSWORD_RECOVERY, USER_UPDATED.
// @Tags Auth
// @Produce text/event-stream
// @Success 200
// @Router /api/v1/auth/events [get]
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	rc := http.NewResponseController(w)
	// the server write timeout would otherwise end the stream
	_ = rc.SetWriteDeadline(time.Time{})

	events, cancel := h.auth.Watch(session.User.ID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		h.reqLogger(r).Warn("event stream cannot flush", "err", err)
		return
	}

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": ping\n\n")
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: {\"type\":%q,\"at\":%q}\n\n", ev.Type, ev.Type, ev.At.Format(time.RFC3339))
			if ev.Type == auth.EventSignedOut && ev.SessionID == session.ID {
				if err := rc.Flush(); err != nil {
					h.reqLogger(r).Warn("sign-out event not flushed", "err", err)
				}
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
