// Package metrics defines and registers all custom Prometheus metrics for the
// employee records service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "employees"

// ── Employee metrics ──────────────────────────────────────────────────────────

// EmployeeWritesTotal counts write operations against the employee register.
// Labels:
//   - op: "create", "update" or "delete"
//   - result: "ok" or "conflict" (duplicate email)
var EmployeeWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_total",
		Help:      "Total number of employee write operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid", "unknown_user" or "account_status"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by result.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts authorization gate decisions.
// Label:
//   - decision: "allow", "deny" or "require_auth"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions taken by the request gate.",
	},
	[]string{"decision"},
)

// TokensRevokedTotal counts bearer tokens revoked by logout.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of API tokens revoked on logout.",
	},
)
