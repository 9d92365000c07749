package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the ledger's Prometheus collectors.
type Registry struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	FlightsCreatedTotal   prometheus.Counter
	TicketsSoldTotal      prometheus.Counter
	TicketsCancelledTotal prometheus.Counter
	RefundsIssuedTotal    prometheus.Counter
}

func NewRegistry() *Registry {
	return &Registry{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightledger_http_requests_total",
				Help: "HTTP requests by endpoint, method and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightledger_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"endpoint", "method"},
		),
		FlightsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "flightledger_flights_created_total",
			Help: "Flights registered on the ledger",
		}),
		TicketsSoldTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "flightledger_tickets_sold_total",
			Help: "Successful ticket purchases",
		}),
		TicketsCancelledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "flightledger_tickets_cancelled_total",
			Help: "Successful ticket cancellations",
		}),
		RefundsIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "flightledger_refund_units_total",
			Help: "Accumulated refund value returned to passengers",
		}),
	}
}
