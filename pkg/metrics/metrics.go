package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Payment lifecycle counters, exposed on /metrics.
var (
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studylib_orders_created_total",
			Help: "Payment orders created, by gateway and order type",
		},
		[]string{"gateway", "type"},
	)

	OrdersFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studylib_orders_finalized_total",
			Help: "Finalize outcomes, by result (paid, failed, conflict)",
		},
		[]string{"result"},
	)

	SignatureFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studylib_signature_failures_total",
			Help: "Gateway signature verifications that failed, by gateway",
		},
		[]string{"gateway"},
	)

	GatewayErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studylib_gateway_errors_total",
			Help: "Failed intent creation calls to the external gateway",
		},
		[]string{"gateway"},
	)

	CouponRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studylib_coupon_rejections_total",
			Help: "Coupon validations rejected, by reason",
		},
		[]string{"reason"},
	)
)
