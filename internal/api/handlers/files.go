package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/rohits-web03/optivus/internal/drive"
	"github.com/rohits-web03/optivus/internal/models"
	"github.com/rohits-web03/optivus/internal/utils"
	"github.com/rohits-web03/optivus/internal/view"
)

// multipart parts beyond this are spooled to disk
const multipartMemory = 32 << 20

type browseResponse struct {
	view.State
	Tab    view.Tab    `json:"tab"`
	Query  string      `json:"query,omitempty"`
	Counts view.Counts `json:"counts"`
}

// ListFiles godoc
// @Summary Browse a folder
// @Description Lists files and sub-folders of a folder for a sidebar tab, optionally filtered by name.
// @Tags Files
// @Produce json
// @Param folder query string false "Folder id; empty for the root"
// @Param tab query string false "all, starred, recent, uploads, shared or trash"
// @Param q query string false "Case-insensitive name filter"
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /api/v1/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID, err := optionalID(r.URL.Query().Get("folder"))
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid folder id")
		return
	}
	tab := view.ParseTab(r.URL.Query().Get("tab"))
	starredOnly, sort, empty := tab.Query()

	state := view.State{FolderID: folderID}
	if !empty {
		files, err := listWithRetry(r.Context(), h, func(ctx context.Context) ([]models.File, error) {
			return h.drive.ListFiles(ctx, folderID, starredOnly, sort)
		})
		if err != nil {
			h.fail(w, r, err)
			return
		}
		state = view.Reduce(state, view.FilesLoaded{Files: files})
	}

	folders, err := listWithRetry(r.Context(), h, func(ctx context.Context) ([]models.Folder, error) {
		return h.drive.ListFolders(ctx, folderID)
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	state = view.Reduce(state, view.FoldersLoaded{Folders: folders})

	q := r.URL.Query().Get("q")
	resp := browseResponse{
		State:  state,
		Tab:    tab,
		Query:  q,
		Counts: state.Counts(h.now()),
	}
	resp.Files = state.Filter(q)

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Files retrieved successfully",
		Data:    resp,
	})
}

type uploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// UploadFiles godoc
// @Summary Upload one or more files
// @Description Uploads every part named "files" into the optional folder. Uploads run in parallel
// @Description with a bounded number in flight; one failed file does not stop the others.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to upload" style(form) explode(true)
// @Param folder formData string false "Target folder id"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 413 {object} utils.Payload
// @Router /api/v1/files [post]
func (h *Handler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.UploadMaxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.Fail(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
			return
		}
		utils.Fail(w, http.StatusBadRequest, "Invalid file upload form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	formFiles := r.MultipartForm.File["files"]
	if len(formFiles) == 0 {
		utils.Fail(w, http.StatusBadRequest, "No files provided")
		return
	}
	folderID, err := optionalID(r.FormValue("folder"))
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid folder id")
		return
	}

	uploads := make([]drive.Upload, 0, len(formFiles))
	for _, fh := range formFiles {
		src, err := fh.Open()
		if err != nil {
			utils.Fail(w, http.StatusBadRequest, "Could not read "+fh.Filename)
			return
		}
		defer src.Close()
		uploads = append(uploads, drive.Upload{
			Name:        fh.Filename,
			ContentType: contentType(fh),
			Size:        fh.Size,
			Body:        src,
		})
	}

	results := h.drive.UploadFiles(r.Context(), uploads, folderID)

	uploaded := make([]*models.File, 0, len(results))
	var failed []uploadFailure
	var firstErr error
	for _, res := range results {
		if res.Err != nil {
			if firstErr == nil {
				firstErr = res.Err
			}
			_, msg := driveError(res.Err)
			failed = append(failed, uploadFailure{Name: res.Name, Error: msg})
			h.reqLogger(r).Warn("upload failed", "file", res.Name, "err", res.Err)
			continue
		}
		uploaded = append(uploaded, res.File)
	}

	if len(uploaded) == 0 {
		h.fail(w, r, firstErr)
		return
	}

	msg := "Files uploaded successfully"
	if len(failed) > 0 {
		msg = "Some files could not be uploaded"
	}
	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: len(failed) == 0,
		Message: msg,
		Data: map[string]any{
			"uploaded": uploaded,
			"failed":   failed,
		},
	})
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// StarFile godoc
// @Summary Star or unstar a file
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File id"
// @Param body body object true "{\"starred\": true}"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/files/{id}/star [patch]
func (h *Handler) StarFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input struct {
		Starred *bool `json:"starred"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil || input.Starred == nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	file, err := h.drive.StarFile(r.Context(), id, *input.Starred)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File updated",
		Data:    file,
	})
}

// RenameFile godoc
// @Summary Rename a file
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File id"
// @Param body body object true "{\"name\": \"new name\"}"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/files/{id} [patch]
func (h *Handler) RenameFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input struct {
		Name string `json:"name"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	file, err := h.drive.RenameFile(r.Context(), id, input.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File renamed",
		Data:    file,
	})
}

// DeleteFile godoc
// @Summary Delete a file
// @Description Removes the stored binary, then the record.
// @Tags Files
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 502 {object} utils.Payload
// @Router /api/v1/files/{id} [delete]
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.drive.DeleteFile(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "File deleted",
	})
}

// DownloadFile godoc
// @Summary Get a download link
// @Description Returns a presigned URL valid for 15 minutes.
// @Tags Files
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/files/{id}/download [get]
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	url, err := h.drive.DownloadURL(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Download URL generated",
		Data: map[string]any{
			"url":       url,
			"expiresIn": int(drive.DownloadURLTTL.Seconds()),
		},
	})
}
