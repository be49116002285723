package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rohits-web03/optivus/internal/api/middleware"
	"github.com/rohits-web03/optivus/internal/auth"
	"github.com/rohits-web03/optivus/internal/chat"
	"github.com/rohits-web03/optivus/internal/config"
	"github.com/rohits-web03/optivus/internal/drive"
	"github.com/rohits-web03/optivus/internal/retry"
	"github.com/rohits-web03/optivus/internal/utils"
)

// Handler serves the HTTP API. Build it with New.
type Handler struct {
	cfg    config.Config
	drive  *drive.Client
	auth   *auth.Provider
	chat   *chat.Client
	logger *log.Logger
	now    func() time.Time

	// retryOpts apply to every listing call.
	retryOpts []retry.Option
}

func New(cfg config.Config, d *drive.Client, p *auth.Provider, c *chat.Client, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{
		cfg:    cfg,
		drive:  d,
		auth:   p,
		chat:   c,
		logger: logger,
		now:    time.Now,
	}
	h.retryOpts = []retry.Option{
		retry.WithNotify(func(err error, wait time.Duration) {
			h.logger.Warn("listing failed, retrying", "err", err, "wait", wait)
		}),
	}
	return h
}

func (h *Handler) reqLogger(r *http.Request) *log.Logger {
	return middleware.LoggerFrom(r.Context(), h.logger)
}

// listWithRetry bounds each attempt by the configured list timeout.
func listWithRetry[T any](ctx context.Context, h *Handler, fn func(ctx context.Context) (T, error)) (T, error) {
	return retry.Do(ctx, func(ctx context.Context) (T, error) {
		if h.cfg.ListTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.cfg.ListTimeout)
			defer cancel()
		}
		return fn(ctx)
	}, h.retryOpts...)
}

// driveError maps a drive.Client failure to a status and a message for the user.
func driveError(err error) (int, string) {
	switch {
	case errors.Is(err, drive.ErrConfiguration):
		return http.StatusServiceUnavailable, "Storage backend is not configured"
	case errors.Is(err, drive.ErrAuth):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, drive.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, drive.ErrInvalid):
		var de *drive.Error
		if errors.As(err, &de) && de.Err != nil {
			return http.StatusBadRequest, de.Err.Error()
		}
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, drive.ErrStorage):
		return http.StatusBadGateway, "Storage operation failed"
	case errors.Is(err, drive.ErrQuery):
		return http.StatusBadGateway, "Could not load data, please try again"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out"
	}
	return http.StatusInternalServerError, "Something went wrong"
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := driveError(err)
	logger := h.reqLogger(r)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	utils.Fail(w, status, msg)
}

// optionalID parses an optional uuid query or form value. Empty and "root" mean none.
func optionalID(raw string) (*uuid.UUID, error) {
	if raw == "" || raw == "root" || raw == "null" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
