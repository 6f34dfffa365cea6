package handler

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"strongbox/internal/delivery/http/middleware"
	"strongbox/internal/delivery/http/response"
	"strongbox/internal/domain/entity"
	"strongbox/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FileHandler holds dependencies for object storage handlers.
type FileHandler struct {
	uc     usecase.StorageUsecase
	logger *slog.Logger
}

// NewFileHandler is the constructor for FileHandler, injected by Fx.
func NewFileHandler(uc usecase.StorageUsecase, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		uc:     uc,
		logger: logger,
	}
}

// fileView is the representation of a stored object returned to clients.
type fileView struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

func toFileView(file *entity.File) fileView {
	return fileView{
		ID:           file.ID,
		OriginalName: file.OriginalName,
		Size:         file.Size,
		MimeType:     file.MimeType,
		CreatedAt:    file.CreatedAt,
	}
}

// Upload handles a multipart file upload and stores the object.
func (h *FileHandler) Upload(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Not authenticated")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Multipart field 'file' is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Failed to read uploaded file")
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	output, err := h.uc.Store(c.Request().Context(), &usecase.StoreFileInput{
		OwnerID:      principal.UserID,
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		Data:         data,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toFileView(output.File), "File stored successfully")
}

// Download streams an object's content back to its owner.
func (h *FileHandler) Download(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Not authenticated")
	}

	output, err := h.uc.Retrieve(c.Request().Context(), principal.UserID, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	// The original name is client-supplied; FormatMediaType quotes and
	// escapes it so it cannot break out of the header value.
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": output.File.OriginalName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)

	return c.Blob(http.StatusOK, output.File.MimeType, output.Data)
}

// Delete removes an object owned by the caller.
func (h *FileHandler) Delete(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Not authenticated")
	}

	if err := h.uc.Delete(c.Request().Context(), principal.UserID, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "File deleted successfully")
}

// List returns the caller's objects, newest first.
func (h *FileHandler) List(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Not authenticated")
	}

	files, err := h.uc.List(c.Request().Context(), principal.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]fileView, 0, len(files))
	for _, file := range files {
		views = append(views, toFileView(file))
	}

	return response.Success(c, http.StatusOK, views, "Files listed successfully")
}

// Stats returns the caller's aggregate storage usage.
func (h *FileHandler) Stats(c echo.Context) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Not authenticated")
	}

	stats, err := h.uc.Stats(c.Request().Context(), principal.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "Storage stats retrieved successfully")
}
