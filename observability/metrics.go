package observability

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// FaucetMetrics records claim outcomes and dispensed value.
type FaucetMetrics struct {
	claims    *prometheus.CounterVec
	dispensed prometheus.Counter
}

var (
	faucetMetricsOnce sync.Once
	faucetRegistry    *FaucetMetrics
)

// Metrics returns the lazily-initialised faucet metrics registry.
func Metrics() *FaucetMetrics {
	faucetMetricsOnce.Do(func() {
		faucetRegistry = &FaucetMetrics{
			claims: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "faucet",
				Name:      "claims_total",
				Help:      "Total claim requests segmented by outcome.",
			}, []string{"outcome"}),
			dispensed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "faucet",
				Name:      "dispensed_nhb_total",
				Help:      "Total NHB dispensed by committed claims.",
			}),
		}
		prometheus.MustRegister(
			faucetRegistry.claims,
			faucetRegistry.dispensed,
		)
	})
	return faucetRegistry
}

// ObserveClaim counts one claim request with its terminal outcome.
func (m *FaucetMetrics) ObserveClaim(outcome string) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(outcome).Inc()
}

// AddDispensed adds a committed claim's wei amount, exported in NHB units.
func (m *FaucetMetrics) AddDispensed(amount *big.Int) {
	if m == nil || amount == nil {
		return
	}
	m.dispensed.Add(decimal.NewFromBigInt(amount, -18).InexactFloat64())
}
