package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"energytrack/internal/config"
	"energytrack/internal/domain"
	"energytrack/internal/observability/logging"
	"energytrack/internal/observability/metrics"
	impl "energytrack/internal/service/impl"
	"energytrack/internal/store"
	httpx "energytrack/internal/transport/http"
	"energytrack/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "energytrack",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()

	metrics.MustRegister()

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(&domain.User{}, &domain.Appliance{}, &domain.EnergySummary{}); err != nil {
		logger.Error("automigrate", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)

	pw := impl.NewPasswordServiceBcrypt()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		TTL:        cfg.TokenTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	mail := impl.NewLogMailService()
	as := impl.NewAuthServiceImpl(st, pw, ts, mail, cfg.ResetTokenTTL)
	es := impl.NewEnergyServiceImpl(st)

	handler := httpx.NewRouter(as, es, ts)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
