// Package metrics exports run metrics for a federation-formation run as
// Prometheus collectors: counters, a CounterVec and a Histogram held by each
// Recorder, registered in a custom registry rather than the global default so a
// run's listener never leaks state across process-internal tests, exposed
// through an opt-in HTTP server started only when a caller asks for one.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/g-uva/federation-formation-sim/pkg/coalition"
)

// Recorder implements coalition.Recorder on top of a private Prometheus
// registry, plus a by-criterion acceptance counter incremented through
// PartitionAccepted.
type Recorder struct {
	registry *prometheus.Registry

	coalitionsEvaluated  prometheus.Counter
	coalitionsInfeasible prometheus.Counter
	solverDuration       prometheus.Histogram
	partitionsAccepted   *prometheus.CounterVec
}

var _ coalition.Recorder = (*Recorder)(nil)

// New builds a Recorder with its own registry, so a caller that never opts
// into --metrics-addr never touches the global Prometheus registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		coalitionsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coalitions_evaluated_total",
			Help: "Total number of coalitions visited by the evaluator.",
		}),
		coalitionsInfeasible: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coalitions_infeasible_total",
			Help: "Total number of coalitions the placement solver could not solve.",
		}),
		solverDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "solver_duration_seconds",
			Help:    "Wall-clock duration of individual placement-solver calls.",
			Buckets: prometheus.DefBuckets,
		}),
		partitionsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "partitions_accepted_total",
			Help: "Total number of partitions accepted by the selector, by formation criterion.",
		}, []string{"criterion"}),
	}
	r.registry.MustRegister(r.coalitionsEvaluated, r.coalitionsInfeasible, r.solverDuration, r.partitionsAccepted)
	return r
}

func (r *Recorder) CoalitionEvaluated()            { r.coalitionsEvaluated.Inc() }
func (r *Recorder) CoalitionInfeasible()           { r.coalitionsInfeasible.Inc() }
func (r *Recorder) SolverDuration(seconds float64) { r.solverDuration.Observe(seconds) }

// PartitionAccepted increments the per-criterion acceptance counter; called
// from cmd/sim after pkg/partition.Select returns, not from inside the
// selector itself, so pkg/partition stays metrics-free.
func (r *Recorder) PartitionAccepted(criterion string) {
	r.partitionsAccepted.WithLabelValues(criterion).Inc()
}

// Serve starts an HTTP server exposing this Recorder's registry on addr
// and blocks until ctx is cancelled, then shuts the server down. The CLI's
// golden path never calls this; it only runs when --metrics-addr is set.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
