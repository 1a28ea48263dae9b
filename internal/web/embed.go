// Package web serves the browser client: the pre-built bundle in production,
// or plain fallback pages in development when no dev server is running.
package web

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed all:dist
var distFiles embed.FS

//go:embed static
var staticFiles embed.FS

// reservedPrefixes are server-owned paths the SPA catch-all must never
// shadow.
var reservedPrefixes = []string{"/api", "/upload", "/store", "/public", "/ws", "/health"}

func isReserved(requestPath string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(requestPath, prefix) {
			return true
		}
	}
	return false
}

// GetFileSystem returns the embedded bundle filesystem rooted at dist.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(distFiles, "dist")
}

// HasBundle reports whether a built client bundle is embedded.
func HasBundle() bool {
	entries, err := distFiles.ReadDir("dist")
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.Name() == "index.html" {
			return true
		}
	}
	return false
}

// RegisterStaticRoutes serves the embedded bundle for all non-API routes,
// with index.html as the SPA fallback. API routes must be registered first.
func RegisterStaticRoutes(e *echo.Echo) error {
	bundleFS, err := GetFileSystem()
	if err != nil {
		return err
	}

	fileServer := http.FileServer(http.FS(bundleFS))

	e.GET("/*", func(c echo.Context) error {
		requestPath := path.Clean(c.Request().URL.Path)
		if requestPath == "." {
			requestPath = "/"
		}

		// Unknown server paths stay 404s rather than becoming SPA routes.
		if isReserved(requestPath) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}

		file, err := bundleFS.Open(strings.TrimPrefix(requestPath, "/"))
		if err != nil {
			return serveIndexHTML(c, bundleFS)
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil || stat.IsDir() {
			return serveIndexHTML(c, bundleFS)
		}

		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})

	return nil
}

// serveIndexHTML serves the bundle's index.html for SPA routing.
func serveIndexHTML(c echo.Context, bundleFS fs.FS) error {
	indexFile, err := bundleFS.Open("index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "index.html not found")
	}
	defer indexFile.Close()

	content, err := io.ReadAll(indexFile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read index.html")
	}

	return c.HTMLBlob(http.StatusOK, content)
}

// RegisterFallbackRoutes serves the plain development pages used when the
// client dev server is not running.
func RegisterFallbackRoutes(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return servePage(c, "static/login.html")
	})
	e.GET("/dashboard.html", func(c echo.Context) error {
		return servePage(c, "static/dashboard.html")
	})
}

func servePage(c echo.Context, name string) error {
	content, err := staticFiles.ReadFile(name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "page not found")
	}
	return c.HTMLBlob(http.StatusOK, content)
}
