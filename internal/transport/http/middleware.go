package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"retrosync/internal/domain"
	"retrosync/internal/observability/metrics"
	"retrosync/internal/service"
	"retrosync/internal/store"

	"github.com/go-chi/chi/v5"
)

type ctxKey string

const (
	ctxKeyDevice ctxKey = "device"
	ctxKeyUserID ctxKey = "user_id"
)

// DeviceFromContext returns the authenticated device set by DeviceAuth.
func DeviceFromContext(ctx context.Context) (*domain.Device, bool) {
	d, ok := ctx.Value(ctxKeyDevice).(*domain.Device)
	return d, ok
}

// UserIDFromContext returns the authenticated user id set by UserAuth.
func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(domain.UserID)
	return id, ok
}

// bearerToken extracts the credential from Authorization: Bearer or, for
// devices, the X-API-Key header.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, found := strings.CutPrefix(h, "Bearer "); found {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// DeviceAuth authenticates sync-protocol requests by device API key.
func DeviceAuth(st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := bearerToken(r)
			if key == "" {
				http.Error(w, "missing api key", http.StatusUnauthorized)
				return
			}
			device, err := st.Devices().GetByAPIKey(r.Context(), key)
			if err != nil {
				if store.IsNotFound(err) {
					http.Error(w, domain.ErrInvalidAPIKey.Error(), http.StatusUnauthorized)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyDevice, device)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserAuth authenticates web-API requests by JWT access token.
func UserAuth(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			userID, err := tokens.VerifyAccess(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Metrics records request counts and latencies against the chi route pattern,
// so path parameters don't explode label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
