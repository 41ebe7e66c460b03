package extension

import (
	"github.com/xraph/forge"

	"github.com/xraph/lendbook/observability"
)

// forgeMetrics adapts forge.Metrics to observability.MetricFactory.
type forgeMetrics struct {
	m forge.Metrics
}

// compile-time interface check
var _ observability.MetricFactory = forgeMetrics{}

func (f forgeMetrics) Counter(name string) observability.Counter {
	return f.m.Counter(name)
}

func (f forgeMetrics) Histogram(name string) observability.Histogram {
	return f.m.Histogram(name)
}
