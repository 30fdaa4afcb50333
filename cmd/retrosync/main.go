package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"retrosync/internal/blob"
	"retrosync/internal/config"
	"retrosync/internal/domain"
	"retrosync/internal/observability/logging"
	"retrosync/internal/observability/metrics"
	"retrosync/internal/service/impl"
	"retrosync/internal/store"
	httpx "retrosync/internal/transport/http"
	"retrosync/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "retrosync",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("retrosync")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(
		&domain.User{},
		&domain.PasswordCredential{},
		&domain.Device{},
		&domain.Save{},
		&domain.SaveLocation{},
		&domain.SaveVersion{},
		&domain.SyncLog{},
	); err != nil {
		logger.Error("auto migrate", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)

	blobs, err := blob.NewS3Store(context.Background(), blob.S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretKey,
		ForcePathStyle:  cfg.S3ForcePathStyle,
	})
	if err != nil {
		logger.Error("blob store init", "error", err)
		os.Exit(1)
	}

	pw := impl.NewPasswordServiceArgon2id()
	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	auth := impl.NewAuthServiceImpl(st, pw, tokens)
	entitlements := impl.NewEntitlementServiceImpl(st)
	devices := impl.NewDeviceServiceImpl(st, entitlements)
	uploads := impl.NewUploadServiceImpl(st, blobs)
	manifests := impl.NewManifestServiceImpl(st)
	downloads := impl.NewDownloadServiceImpl(st, blobs)
	logs := impl.NewLogServiceImpl(st)
	saves := impl.NewSaveServiceImpl(st, blobs)
	strategy := impl.NewStrategyServiceImpl(st, entitlements)

	router := httpx.NewRouter(httpx.RouterDeps{
		Store:       st,
		Auth:        auth,
		Tokens:      tokens,
		Uploads:     uploads,
		Manifests:   manifests,
		Downloads:   downloads,
		Devices:     devices,
		Logs:        logs,
		Saves:       saves,
		Strategy:    strategy,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("retrosync listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
