package handlers

import (
	"context"
	"net/http"

	"github.com/rohits-web03/optivus/internal/models"
	"github.com/rohits-web03/optivus/internal/utils"
)

// ListFolders godoc
// @Summary List folders
// @Tags Folders
// @Produce json
// @Param parent query string false "Parent folder id; empty for top level"
// @Success 200 {object} utils.Payload
// @Router /api/v1/folders [get]
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	parentID, err := optionalID(r.URL.Query().Get("parent"))
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid parent id")
		return
	}

	folders, err := listWithRetry(r.Context(), h, func(ctx context.Context) ([]models.Folder, error) {
		return h.drive.ListFolders(ctx, parentID)
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folders retrieved successfully",
		Data:    folders,
	})
}

// CreateFolder godoc
// @Summary Create a folder
// @Tags Folders
// @Accept json
// @Produce json
// @Param body body object true "{\"name\": \"Reports\", \"parentId\": null}"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/folders [post]
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		ParentID string `json:"parentId"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}
	parentID, err := optionalID(input.ParentID)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid parent id")
		return
	}

	folder, err := h.drive.CreateFolder(r.Context(), input.Name, parentID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Folder created",
		Data:    folder,
	})
}
