// Package metrics defines and registers all custom Prometheus metrics for
// the directory client engine. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "directory_client"

// RequestsTotal counts backend requests issued by the API client.
// Labels:
//   - resource: "auth", "person", "role", "department"
//   - outcome: "ok", "http_error", "transport_error", "missing_token"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of backend requests, by resource and outcome.",
	},
	[]string{"resource", "outcome"},
)

// CacheLookupsTotal counts entity cache reads.
// Labels:
//   - collection: "people", "roles", "departments", "person"
//   - result: "hit" (served from cache) or "miss" (fetched from the backend)
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of entity cache lookups, by collection and result.",
	},
	[]string{"collection", "result"},
)

// LoginAttemptsTotal counts login protocol outcomes.
// Label:
//   - outcome: "silent_ok", "silent_none", "credential_ok", "retry_ok", "rejected"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login protocol completions, by outcome.",
	},
	[]string{"outcome"},
)
