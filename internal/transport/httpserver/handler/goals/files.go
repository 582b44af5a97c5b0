package goals

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	filedomain "goal-tracker-go/internal/domain/file"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
)

// multipartSlack leaves room for multipart framing so oversized files still
// reach the service and fail with its own error.
const multipartSlack = 1 << 20

type fileResponse struct {
	ID         string    `json:"id"`
	GoalID     string    `json:"goal_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	MimeType   *string   `json:"mime_type"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type uploadResponse struct {
	File        fileResponse `json:"file"`
	DownloadURL string       `json:"download_url"`
}

type downloadResponse struct {
	FileID      string `json:"file_id"`
	FileName    string `json:"file_name"`
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"`
}

func newFileResponse(file filedomain.File) fileResponse {
	return fileResponse{
		ID:         file.ID,
		GoalID:     file.GoalID,
		FileName:   file.FileName,
		FilePath:   file.FilePath,
		FileSize:   file.FileSize,
		MimeType:   file.MimeType,
		UploadedBy: file.UploadedBy,
		UploadedAt: file.UploadedAt,
	}
}

func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")

	files, err := h.Files.List(r.Context(), goalID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "files.list", err, "user_id", user.ID, "goal_id", goalID)
		return
	}

	response := make([]fileResponse, 0, len(files))
	for _, file := range files {
		response = append(response, newFileResponse(file))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, filedomain.MaxFileSize+multipartSlack)
	if err := r.ParseMultipartForm(filedomain.MaxFileSize + multipartSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteDomainError(w, h.log, "files.upload", filedomain.ErrFileTooLarge, "user_id", user.ID, "goal_id", goalID)
			return
		}
		common.WriteError(w, http.StatusBadRequest, "invalid_multipart", "expected multipart form with a file field")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	part, header, err := r.FormFile("file")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "file_required", "file is required")
		return
	}
	defer part.Close()

	uploaded, err := h.Files.Upload(r.Context(), goalID, user.ID, filedomain.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        part,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "files.upload", err, "user_id", user.ID, "goal_id", goalID)
		return
	}
	h.metrics.FileUploaded()

	common.WriteJSON(w, http.StatusCreated, uploadResponse{
		File:        newFileResponse(uploaded.File),
		DownloadURL: uploaded.DownloadURL,
	})
}

func (h *Handlers) DownloadFile(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")
	fileID := chi.URLParam(r, "file_id")

	download, err := h.Files.Download(r.Context(), goalID, fileID, user.ID)
	if err != nil {
		common.WriteDomainError(w, h.log, "files.download", err, "user_id", user.ID, "goal_id", goalID, "file_id", fileID)
		return
	}
	common.WriteJSON(w, http.StatusOK, downloadResponse{
		FileID:      download.FileID,
		FileName:    download.FileName,
		DownloadURL: download.DownloadURL,
		ExpiresIn:   download.ExpiresIn,
	})
}

func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	user, ok := common.RequireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")
	fileID := chi.URLParam(r, "file_id")

	if err := h.Files.Delete(r.Context(), goalID, fileID, user.ID); err != nil {
		common.WriteDomainError(w, h.log, "files.delete", err, "user_id", user.ID, "goal_id", goalID, "file_id", fileID)
		return
	}
	common.NoContent(w)
}
