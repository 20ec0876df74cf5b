package progtest

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.firedancer.io/progtest/pkg/sealevel"
)

// Registry holds the bridge's metrics. It is separate from the default
// registry so tests and the CLI see only invocation counters.
var Registry = prometheus.NewRegistry()

var (
	metricInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progtest",
		Name:      "invocations_total",
		Help:      "Program functions invoked through the trampoline",
	}, []string{"result"})

	metricCpi = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progtest",
		Name:      "cpi_total",
		Help:      "Cross program invocations issued by program functions",
	}, []string{"result"})

	metricProgramFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progtest",
		Name:      "program_failures_total",
		Help:      "Failed invocations by instruction error",
	}, []string{"error"})

	metricComputeUnits = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "progtest",
		Name:      "compute_units_consumed",
		Help:      "Compute units consumed per invocation, nested calls included",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})
)

func init() {
	Registry.MustRegister(metricInvocations, metricCpi, metricProgramFailures, metricComputeUnits)
}

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

func recordInvocation(err error, consumed uint64) {
	metricComputeUnits.Observe(float64(consumed))
	if err != nil {
		metricInvocations.WithLabelValues(resultFailure).Inc()
		metricProgramFailures.WithLabelValues(errorKind(err)).Inc()
		return
	}
	metricInvocations.WithLabelValues(resultSuccess).Inc()
}

// errorKind names the instruction error kind of err, dropping payloads so
// the label set stays bounded.
func errorKind(err error) string {
	code, ok := sealevel.InstrErrCode(err)
	if !ok {
		return "other"
	}
	switch code {
	case sealevel.InstrErrCodeCustom:
		return "custom"
	case sealevel.InstrErrCodeBorshIoError:
		return "borsh_io"
	}
	return sealevel.InstrErrFromCode(code).Error()
}

func recordCpi(err error) {
	if err != nil {
		metricCpi.WithLabelValues(resultFailure).Inc()
		return
	}
	metricCpi.WithLabelValues(resultSuccess).Inc()
}
