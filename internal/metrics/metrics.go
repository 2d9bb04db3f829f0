package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User Activity Metrics
	SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_signups_total",
		Help: "Total number of new account registrations.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of OTP login verifications (successful and failed).",
	}, []string{"status"}) // status: "success" or "failed"
	OTPIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_issued_total",
		Help: "Total number of OTP codes issued.",
	}, []string{"purpose"})
	OTPEmailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_otp_email_failures_total",
		Help: "Total number of OTP emails that failed to send.",
	})
	PasswordResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_password_resets_total",
		Help: "Total number of completed password resets.",
	})

	// Ingestion Metrics
	PointsIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_points_ingested_total",
		Help: "Total number of points appended to the shared sequence.",
	}, []string{"source"}) // source: "input" or "csv"
	ShapefileUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_shapefile_uploads_total",
		Help: "Total number of shapefile uploads.",
	}, []string{"status"})
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_exports_total",
		Help: "Total number of CSV exports served.",
	}, []string{"kind"}) // kind: "all" or "outside"

	// Proxy Metrics
	ProxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_proxy_requests_total",
		Help: "Total number of outbound proxy calls.",
	}, []string{"upstream", "status"}) // upstream: "weather" or "overpass"
)
