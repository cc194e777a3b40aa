// Package metrics defines and registers all custom Prometheus metrics for the
// booking web gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at package init via promauto;
// the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookingweb"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthProbesTotal counts session-check probes against the booking API.
// Label:
//   - result: "admin", "interpreter", "customer", or "unauthenticated"
var AuthProbesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_probes_total",
		Help:      "Total number of auth probes, labelled by resolved result.",
	},
	[]string{"result"},
)

// GuardRedirectsTotal counts requests turned away by a route guard.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of guarded requests redirected to the login view.",
	},
	[]string{"reason"},
)

// ── Polling metrics ───────────────────────────────────────────────────────────

// PollRefreshesTotal counts list-snapshot refreshes.
// Labels:
//   - view: the list view being kept fresh (e.g. "accepted_appointments")
//   - result: "ok" or "error"
var PollRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_refreshes_total",
		Help:      "Total number of polling refreshes, by view and result.",
	},
	[]string{"view", "result"},
)

// PollersActive tracks the number of live polling controllers per view.
var PollersActive = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pollers_active",
		Help:      "Current number of active polling controllers, by view.",
	},
	[]string{"view"},
)

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestDuration measures booking API round-trip time.
// Label:
//   - method: HTTP method of the upstream call
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of booking API calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)

// UpstreamErrorsTotal counts failed booking API calls.
// Label:
//   - kind: "business" (error envelope) or "transport"
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of failed booking API calls, by error kind.",
	},
	[]string{"kind"},
)
