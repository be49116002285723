package handlers

import (
	"errors"
	"net/http"

	"github.com/rohits-web03/optivus/internal/auth"
	"github.com/rohits-web03/optivus/internal/chat"
	"github.com/rohits-web03/optivus/internal/utils"
)

// Dashboard godoc
// @Summary Storage usage
// @Description Quota, bytes used, usage by category and file counts over all of the user's files.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.drive.StorageStats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Storage stats",
		Data:    stats,
	})
}

// Chat godoc
// @Summary Ask the assistant
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body object true "{\"message\": \"...\"}"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 429 {object} utils.Payload
// @Router /api/v1/chat [post]
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Message string `json:"message"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var sender chat.Sender
	if session, ok := auth.FromContext(r.Context()); ok {
		sender = chat.Sender{ID: session.User.ID.String(), Email: session.User.Email}
	}

	reply, err := h.chat.Send(r.Context(), sender, input.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		utils.Fail(w, http.StatusBadRequest, "Message is empty")
		return
	case errors.Is(err, chat.ErrRateLimited):
		utils.Fail(w, http.StatusTooManyRequests, "Too many messages, please wait a moment")
		return
	case err != nil:
		h.reqLogger(r).Error("chat failed", "err", err)
		utils.Fail(w, http.StatusInternalServerError, "Chat is unavailable")
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Reply received",
		Data:    reply,
	})
}

// ConfigStatus godoc
// @Summary Backend configuration check
// @Description Reports settings, database connection, tables and bucket independently.
// @Tags Config
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/config/status [get]
func (h *Handler) ConfigStatus(w http.ResponseWriter, r *http.Request) {
	status := h.drive.CheckConfiguration(r.Context())
	msg := "Backend is configured"
	if !status.OK() {
		msg = "Backend configuration is incomplete"
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: status.OK(),
		Message: msg,
		Data:    status,
	})
}
