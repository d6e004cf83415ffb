package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// loginAttempts counts login outcomes by terminal result.
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "license_login_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// registrations counts account creation attempts.
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "license_registrations_total",
		Help: "Total number of registration attempts by outcome",
	}, []string{"outcome"})

	// artifactDownloads counts loader binary downloads served or refused.
	artifactDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "license_artifact_downloads_total",
		Help: "Total number of loader download requests by outcome",
	}, []string{"outcome"})

	// updateChecks counts version comparisons by result.
	updateChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "license_update_checks_total",
		Help: "Total number of update checks by result",
	}, []string{"result"})
)
