// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package metrics defines the Prometheus instrumentation, exposed on
// /metrics for scraping.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "janitarr_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "janitarr_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "janitarr_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Sync metrics.
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "janitarr_sync_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "janitarr_sync_runs_total",
			Help: "Total number of sync runs by outcome",
		},
		[]string{"status"},
	)

	SyncItemsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "janitarr_sync_items_processed_total",
			Help: "Total number of media items and requests cached during syncs",
		},
	)

	// Deletion metrics.
	DeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "janitarr_deletions_total",
			Help: "Total number of deletion attempts by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Upstream client metrics.
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "janitarr_upstream_errors_total",
			Help: "Total number of failed upstream service calls",
		},
		[]string{"service"},
	)
)

// RecordAPIRequest records one finished API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSyncRun records one finished sync run.
func RecordSyncRun(status string, duration time.Duration, itemsProcessed int) {
	SyncRuns.WithLabelValues(status).Inc()
	SyncDuration.Observe(duration.Seconds())
	SyncItemsProcessed.Add(float64(itemsProcessed))
}

// RecordUpstreamError records one failed call to a downstream service.
func RecordUpstreamError(service string) {
	UpstreamErrors.WithLabelValues(strings.ToLower(service)).Inc()
}

// RecordDeletion records one deletion attempt.
func RecordDeletion(kind string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	DeletionsTotal.WithLabelValues(kind, outcome).Inc()
}
