package reporting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is read-only instrumentation for the mining loop: it never gates
// or slows a dispatch, it only mirrors counters the loop already maintains.
type Metrics struct {
	CumulativeNonce prometheus.Counter
	SolutionsFound  prometheus.Counter
	Rate            prometheus.Gauge

	server *http.Server
}

// NewMetrics registers the three collectors against their own registry, so
// a caller that never starts a listener pays no global-registry cost.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		CumulativeNonce: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "createx_miner_cumulative_nonce_total",
			Help: "Total number of batch dispatches since process start.",
		}),
		SolutionsFound: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "createx_miner_solutions_found_total",
			Help: "Total number of vanity addresses found and persisted to the sink.",
		}),
		Rate: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "createx_miner_rate_mhps",
			Help: "Current search rate in millions of attempts per second.",
		}),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	m.server = &http.Server{Handler: mux}
	return m
}

// Serve starts the /metrics HTTP listener on addr and blocks until ctx is
// canceled. Call it in its own goroutine; it returns nil on a clean
// shutdown triggered by ctx cancellation.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	m.server.Addr = addr

	errCh := make(chan error, 1)
	go func() { errCh <- m.server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return m.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("reporting: metrics listener: %w", err)
	}
}
