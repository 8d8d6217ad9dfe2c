// Package telemetry provides the client's Prometheus metrics and an
// optional /metrics listener.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	MessagesSent     *prometheus.CounterVec // by message type
	SendsRejected    prometheus.Counter
	SnapshotsApplied *prometheus.CounterVec // by subscription kind
	BackendErrors    *prometheus.CounterVec // by operation
	UploadsSucceeded prometheus.Counter
	UploadsFailed    prometheus.Counter

	UploadDuration prometheus.Observer
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{Name: "friendszone_messages_sent_total", Help: "Messages written by this client"}, []string{"type"})
		SendsRejected = promauto.NewCounter(prometheus.CounterOpts{Name: "friendszone_sends_rejected_total", Help: "Send attempts rejected before any write"})
		SnapshotsApplied = promauto.NewCounterVec(prometheus.CounterOpts{Name: "friendszone_snapshots_applied_total", Help: "Live subscription snapshots applied"}, []string{"kind"})
		BackendErrors = promauto.NewCounterVec(prometheus.CounterOpts{Name: "friendszone_backend_errors_total", Help: "Failed backend calls"}, []string{"op"})
		UploadsSucceeded = promauto.NewCounter(prometheus.CounterOpts{Name: "friendszone_uploads_succeeded_total", Help: "Blob uploads succeeded"})
		UploadsFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "friendszone_uploads_failed_total", Help: "Blob uploads failed"})
		UploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "friendszone_upload_duration_seconds", Help: "Blob upload duration seconds", Buckets: prometheus.DefBuckets})
	})
}

// Backend error operations.
const (
	OpRead      = "read"
	OpWrite     = "write"
	OpUpload    = "upload"
	OpSubscribe = "subscribe"
)

func MessageSent(kind string) {
	if MessagesSent != nil {
		MessagesSent.WithLabelValues(kind).Inc()
	}
}

func SendRejected() {
	if SendsRejected != nil {
		SendsRejected.Inc()
	}
}

func SnapshotApplied(kind string) {
	if SnapshotsApplied != nil {
		SnapshotsApplied.WithLabelValues(kind).Inc()
	}
}

func BackendError(op string) {
	if BackendErrors != nil {
		BackendErrors.WithLabelValues(op).Inc()
	}
}

// ObserveUpload records the outcome and duration of one upload.
func ObserveUpload(start time.Time, err error) {
	if UploadDuration != nil {
		UploadDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if UploadsFailed != nil {
			UploadsFailed.Inc()
		}
		return
	}
	if UploadsSucceeded != nil {
		UploadsSucceeded.Inc()
	}
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, log logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
