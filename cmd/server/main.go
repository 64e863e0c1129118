package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/apnakhata/apnakhata/internal/auth"
	"github.com/apnakhata/apnakhata/internal/config"
	"github.com/apnakhata/apnakhata/internal/middleware"
	"github.com/apnakhata/apnakhata/internal/notify"
	"github.com/apnakhata/apnakhata/internal/service"
	"github.com/apnakhata/apnakhata/internal/storage/sqlite"
	"github.com/apnakhata/apnakhata/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))
	logger := slog.Default()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.SecretKey, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, jwtManager, store, logger)
	bookService := service.NewBookService(store, notify.NewLogNotifier(), logger)
	accountingService := service.NewAccountingService(store, logger)

	r := mux.NewRouter()
	r.Use(middleware.Metrics)
	service.RegisterRoutes(r, authService, bookService, accountingService,
		middleware.RequireAuth(jwtManager, store))

	handler := middleware.Logging(middleware.CORS(cfg.CORSOrigin)(r))

	// Wrap with h2c so HTTP/2 works without TLS behind a plain listener.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
