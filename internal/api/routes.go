// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/lanshare/backend/internal/config"
)

// RegisterRoutes registers the HTTP API routes with the Echo instance.
// Public-zone files are served statically with no access check; visibility
// is the only control.
func RegisterRoutes(e *echo.Echo, h *Handler, cfg *config.AppConfig) {
	e.GET("/health", h.HandleHealth)

	e.POST("/upload", h.HandleUpload)
	e.GET("/api/files", h.HandleListFiles)
	if cfg.Security.AllowFileDeletion {
		e.DELETE("/api/files/:filename", h.HandleDeleteFile)
	}
	e.POST("/api/verify-password", h.HandleVerifyPassword)

	e.GET("/store/:filename", h.HandleDownload)
	e.Static("/public", h.store.PublicDir())
}
