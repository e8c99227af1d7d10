// Package metrics holds Prometheus instruments that are used across the
// portal.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of authenticated sessions currently held in the store.",
		})

	LoginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Cumulative login attempts by result (success, failure, error).",
		},
		[]string{"result"},
	)

	RegisterTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "register_attempts_total",
			Help: "Cumulative registration attempts by result (success, duplicate, rejected, error).",
		},
		[]string{"result"},
	)

	AdminLoginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_login_attempts_total",
			Help: "Cumulative admin-gate attempts by result (success, failure).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		LoginTotal,
		RegisterTotal,
		AdminLoginTotal,
	)
}
