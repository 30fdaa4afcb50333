package http

import (
	"net/http"
	"strings"
	"time"

	"retrosync/internal/observability/middleware"
	"retrosync/internal/service"
	"retrosync/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Store     *store.Store
	Auth      service.AuthService
	Tokens    service.TokenService
	Uploads   service.UploadService
	Manifests service.ManifestService
	Downloads service.DownloadService
	Devices   service.DeviceService
	Logs      service.LogService
	Saves     service.SaveService
	Strategy  service.StrategyService

	CORSOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	h := &Handler{
		auth:      deps.Auth,
		uploads:   deps.Uploads,
		manifests: deps.Manifests,
		downloads: deps.Downloads,
		devices:   deps.Devices,
		logs:      deps.Logs,
		saves:     deps.Saves,
		strategy:  deps.Strategy,
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.WithRequestAndTrace)
	r.Use(Metrics)

	// rate limit (e.g., 100 req / minute by IP)
	r.Use(httprate.LimitByIP(100, 1*time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(deps.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-API-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
	})

	// Device-facing sync protocol, authenticated by API key.
	r.Group(func(r chi.Router) {
		r.Use(DeviceAuth(deps.Store))

		r.Post("/v1/sync/upload", h.handleUpload)
		r.Get("/v1/sync/manifest", h.handleManifest)
		r.Get("/v1/sync/download/{versionID}", h.handleDownload)
		r.Post("/v1/sync/heartbeat", h.handleHeartbeat)
		r.Post("/v1/sync/log", h.handleRecordLog)
	})

	// User-facing web API, authenticated by access token.
	r.Group(func(r chi.Router) {
		r.Use(UserAuth(deps.Tokens))

		r.Get("/v1/saves", h.handleListSaves)
		r.Delete("/v1/saves/{saveID}", h.handleDeleteSave)
		r.Patch("/v1/saves/strategy", h.handleSetStrategy)
		r.Patch("/v1/saves/sync-mode", h.handleSetSyncMode)
		r.Post("/v1/saves/toggle-sync", h.handleToggleSync)

		r.Post("/v1/devices/register", h.handleRegisterDevice)
		r.Get("/v1/devices", h.handleListDevices)

		r.Get("/v1/sync/logs", h.handleListLogs)
	})

	return r
}

func originsIfSet(in []string) []string {
	out := []string{}
	for _, o := range in {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	// Empty slice tells the CORS lib "disallow all" unless you want "*"
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
