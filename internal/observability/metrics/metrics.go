package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	// UploadsTotal counts admission outcomes: uploaded, duplicate, stale,
	// unchanged, disabled, failed.
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_uploads_total",
			Help: "Total number of upload attempts by admission outcome.",
		},
		[]string{"service", "result"},
	)

	ManifestBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_manifest_builds_total",
			Help: "Total number of manifest builds.",
		},
		[]string{"service"},
	)

	BlobWriteFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_blob_write_failures_total",
			Help: "Total number of blob store write failures during upload.",
		},
		[]string{"service"},
	)

	HashMismatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_hash_mismatches_total",
			Help: "Total number of uploads where the client-supplied hash disagreed with the recomputed one.",
		},
		[]string{"service"},
	)

	BackgroundLogFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_background_log_failures_total",
			Help: "Total number of best-effort sync log writes that failed.",
		},
		[]string{"service"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	UploadsTotal = UploadsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	ManifestBuildsTotal = ManifestBuildsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	BlobWriteFailuresTotal = BlobWriteFailuresTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HashMismatchesTotal = HashMismatchesTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	BackgroundLogFailuresTotal = BackgroundLogFailuresTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		UploadsTotal,
		ManifestBuildsTotal,
		BlobWriteFailuresTotal,
		HashMismatchesTotal,
		BackgroundLogFailuresTotal,
	)
}
