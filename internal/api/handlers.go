// Package api implements the HTTP surface of the LAN share server: file
// upload, listing, deletion, access-code verification, and protected
// download. All handlers are stateless; shared state lives in the injected
// store and registry.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lanshare/backend/internal/access"
	"github.com/lanshare/backend/internal/models"
	"github.com/lanshare/backend/internal/storage"
)

// Handler handles API requests.
type Handler struct {
	store          storage.Store
	registry       *access.Registry
	logger         *zap.Logger
	maxUploadBytes int64
	minCodeLength  int
}

// NewHandler creates a new API handler.
func NewHandler(store storage.Store, registry *access.Registry, logger *zap.Logger, maxUploadBytes int64, minCodeLength int) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:          store,
		registry:       registry,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		minCodeLength:  minCodeLength,
	}
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HandleUpload accepts a multipart upload (fields: file, public, password)
// and stores it in the zone named by the public flag. Private files require
// an access code; a rejected upload never leaves a partial file behind.
func (h *Handler) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError("No file uploaded")
	}

	isPublic := c.FormValue("public") == "true"
	vis := models.Private
	if isPublic {
		vis = models.Public
	}

	src, err := fileHeader.Open()
	if err != nil {
		return NewIOError("Failed to read uploaded file", err)
	}
	defer src.Close()

	entry, err := h.store.Save(fileHeader.Filename, vis, src)
	if err != nil {
		return NewIOError("Failed to store file", err)
	}

	// The transport-layer body limit rejects oversize requests early; this
	// re-checks after the write as a safety net.
	if h.maxUploadBytes > 0 && entry.Size > h.maxUploadBytes {
		_ = h.store.Remove(entry.Name, vis)
		return NewValidationError(fmt.Sprintf("File too large: %d bytes (limit %d)", entry.Size, h.maxUploadBytes))
	}

	if !isPublic {
		password := strings.TrimSpace(c.FormValue("password"))
		if password == "" {
			_ = h.store.Remove(entry.Name, vis)
			return NewValidationError("Access code is required for private files")
		}
		if len(password) < h.minCodeLength {
			_ = h.store.Remove(entry.Name, vis)
			return NewValidationError(fmt.Sprintf("Access code must be at least %d characters long", h.minCodeLength))
		}
		if err := h.registry.SetCode(entry.Name, password); err != nil {
			_ = h.store.Remove(entry.Name, vis)
			return NewIOError("Failed to register access code", err)
		}
	}

	h.logger.Info("file uploaded",
		zap.String("name", entry.Name),
		zap.Int64("size", entry.Size),
		zap.Bool("public", isPublic),
	)

	return c.JSON(http.StatusOK, models.UploadResult{
		Success:     true,
		Message:     "File uploaded successfully",
		Filename:    entry.Name,
		Size:        entry.Size,
		URL:         entry.URL,
		IsPublic:    isPublic,
		HasPassword: !isPublic,
	})
}

// HandleListFiles returns the union of both zones, annotated with the
// hasPassword flag and sorted by modification time, most recent first.
func (h *Handler) HandleListFiles(c echo.Context) error {
	private, err := h.store.List(models.Private)
	if err != nil {
		return NewIOError("Failed to read files", err)
	}
	public, err := h.store.List(models.Public)
	if err != nil {
		return NewIOError("Failed to read files", err)
	}

	files := make([]*models.FileEntry, 0, len(private)+len(public))
	for _, f := range private {
		f.HasPassword = h.registry.Has(f.Name)
		files = append(files, f)
	}
	files = append(files, public...)

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"files": files,
	})
}

// HandleDeleteFile removes a file from the zone named by the public query
// flag and clears any registry entry. Idempotent: a second delete reports
// 404 with no further side effects.
func (h *Handler) HandleDeleteFile(c echo.Context) error {
	filename := c.Param("filename")
	vis := models.Private
	if c.QueryParam("public") == "true" {
		vis = models.Public
	}

	if err := h.store.Remove(filename, vis); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NewNotFoundError("File not found")
		}
		return NewIOError("Failed to delete file", err)
	}

	h.registry.Clear(filename)

	h.logger.Info("file deleted", zap.String("name", filename))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "File deleted successfully",
	})
}

type verifyPasswordRequest struct {
	Filename string `json:"filename"`
	Password string `json:"password"`
}

// HandleVerifyPassword checks an access code against the registry without
// serving any bytes, so the client can pre-validate before constructing a
// download URL.
func (h *Handler) HandleVerifyPassword(c echo.Context) error {
	var req verifyPasswordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError("Filename and password required")
	}
	if req.Filename == "" || req.Password == "" {
		return NewValidationError("Filename and password required")
	}

	if !h.registry.Has(req.Filename) {
		return NewNotFoundError("File not found or no access code set")
	}

	if !h.registry.Verify(req.Filename, req.Password) {
		return NewInvalidCodeError()
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Access code verified",
	})
}

// HandleDownload streams a private file once the access code supplied as a
// query parameter verifies. The code travels as a query parameter because
// the deployment target is a trusted local network.
func (h *Handler) HandleDownload(c echo.Context) error {
	filename := c.Param("filename")

	entry, err := h.store.Stat(filename, models.Private)
	if err != nil {
		return NewNotFoundError("File not found")
	}

	if !h.registry.Has(entry.Name) {
		// Registry entries are memory-only; after a restart private files
		// have no code on record and stay inaccessible.
		return NewAuthRequiredError()
	}

	password := c.QueryParam("password")
	if password == "" {
		return NewAuthRequiredError()
	}

	if !h.registry.Verify(entry.Name, password) {
		return NewInvalidCodeError()
	}

	return c.File(h.store.Path(entry.Name, models.Private))
}
