package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/lanshare/backend/internal/access"
	"github.com/lanshare/backend/internal/api"
	"github.com/lanshare/backend/internal/config"
	"github.com/lanshare/backend/internal/relay"
	"github.com/lanshare/backend/internal/storage"
	"github.com/lanshare/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal("failed to create storage directories", zap.Error(err))
	}

	store, err := storage.NewLocalStore(cfg.Storage.StoreDirectory)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	registry := access.NewRegistry()
	hub := relay.NewHub(logger)
	handler := api.NewHandler(store, registry, logger,
		cfg.Storage.MaxUploadBytes, cfg.Security.MinAccessCodeLength)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewErrorHandler(logger)

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/health" || strings.HasPrefix(path, "/ws")
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, handler, cfg)
	e.GET("/ws", hub.Handle)

	if cfg.IsProduction() && web.HasBundle() {
		if err := web.RegisterStaticRoutes(e); err != nil {
			logger.Warn("failed to register client bundle routes", zap.Error(err))
		}
	} else {
		web.RegisterFallbackRoutes(e)
	}

	s := &http.Server{
		Addr:        cfg.GetServerAddr(),
		ReadTimeout: 0, // uploads may stream for a long time; idle timeout governs
		IdleTimeout: time.Duration(cfg.Server.IdleTimeoutMinutes) * time.Minute,
	}

	logger.Info("server starting",
		zap.String("version", Version),
		zap.String("buildTime", BuildTime),
		zap.String("addr", cfg.GetServerAddr()),
		zap.String("mode", cfg.Mode),
		zap.String("storeDir", cfg.Storage.StoreDirectory),
	)

	printBanner(cfg)

	e.Logger.Fatal(e.StartServer(s))
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./lanshare.yaml"
}

func newLogger(cfg *config.AppConfig) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// getLocalIP returns the first non-loopback IPv4 address, for the startup
// banner shared with other devices on the WiFi.
func getLocalIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if ip4 := ip.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return "localhost"
}

func printBanner(cfg *config.AppConfig) {
	localIP := getLocalIP()
	fmt.Printf("\n")
	fmt.Printf("========================================\n")
	fmt.Printf("  LAN Share running\n")
	fmt.Printf("========================================\n")
	fmt.Printf("  Local:    http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("  Network:  http://%s:%d\n", localIP, cfg.Server.Port)
	fmt.Printf("========================================\n")
	fmt.Printf("  Share the network URL with devices on your WiFi\n")
	fmt.Printf("  Files stored in: %s\n", cfg.Storage.StoreDirectory)
	fmt.Printf("  Real-time chat enabled\n\n")
}
