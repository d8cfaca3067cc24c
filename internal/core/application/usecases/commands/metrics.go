package commands

import (
	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/unit"
)

// Metrics receives business events worth counting. Implementations must be safe for
// concurrent use.
type Metrics interface {
	UnitsStarted(station kernel.Station, count int)
	UnitsOverproduced(station kernel.Station, count int)
	DecisionApplied(decision unit.Decision)
	RoutingUndefined(station kernel.Station)
	CounterDesync(station kernel.Station)
	NotificationEmitted(kind notification.Kind)
}

type noopMetrics struct{}

func (noopMetrics) UnitsStarted(kernel.Station, int) {}
func (noopMetrics) UnitsOverproduced(kernel.Station, int) {}
func (noopMetrics) DecisionApplied(unit.Decision) {}
func (noopMetrics) RoutingUndefined(kernel.Station) {}
func (noopMetrics) CounterDesync(kernel.Station) {}
func (noopMetrics) NotificationEmitted(notification.Kind) {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
