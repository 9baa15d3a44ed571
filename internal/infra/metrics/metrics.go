// Package metrics defines the custom Prometheus metrics of the marketplace.
// It is the single source of truth for metric names, labels, and help strings;
// request-level metrics come from the echoprometheus middleware instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "surplus"

// ListingsCreatedTotal counts listings added to the catalog.
var ListingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	},
)

// ListingsSoldTotal counts completed purchases.
var ListingsSoldTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_sold_total",
		Help:      "Total number of listings purchased.",
	},
)

// PurchaseRejectionsTotal counts purchase attempts that failed.
// Label:
//   - reason: "already_sold" or "permission_denied"
var PurchaseRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_rejections_total",
		Help:      "Total number of rejected purchase attempts, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login outcomes.
// Label:
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)
