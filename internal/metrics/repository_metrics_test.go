package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewRepositoryMetrics(t *testing.T) {
	m := NewRepositoryMetrics()

	if m == nil {
		t.Fatal("NewRepositoryMetrics should not return nil")
	}
	if m.operations == nil {
		t.Error("operations counter vec should not be nil")
	}
	if m.operationDuration == nil {
		t.Error("operationDuration histogram vec should not be nil")
	}
	if m.eventsPublished == nil {
		t.Error("eventsPublished counter should not be nil")
	}
}

func TestNewRepositoryMetrics_ReregisterReturnsExisting(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newRepositoryMetricsWithRegisterer(reg)
	second := newRepositoryMetricsWithRegisterer(reg)

	if first.operations != second.operations {
		t.Error("re-registration should reuse the existing counter vec")
	}
	if first.eventsPublished != second.eventsPublished {
		t.Error("re-registration should reuse the existing counter")
	}
}

func TestRecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newRepositoryMetricsWithRegisterer(reg)

	m.RecordOperation("add_new", OutcomeOK)
	m.RecordOperation("add_new", OutcomeOK)
	m.RecordOperation("delete", OutcomeRejected)
	m.RecordOperationDuration("add_new", 25*time.Millisecond)
	m.RecordEventPublished()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}

	ops, ok := byName["northwind_repository_operations_total"]
	if !ok {
		t.Fatal("operations counter is not registered")
	}
	if got := counterValue(t, ops, "add_new", OutcomeOK); got != 2 {
		t.Errorf("expected 2 successful add_new operations, got %v", got)
	}
	if got := counterValue(t, ops, "delete", OutcomeRejected); got != 1 {
		t.Errorf("expected 1 rejected delete operation, got %v", got)
	}

	events, ok := byName["northwind_order_events_published_total"]
	if !ok {
		t.Fatal("events counter is not registered")
	}
	if got := events.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("expected 1 published event, got %v", got)
	}

	if _, ok := byName["northwind_repository_operation_duration_seconds"]; !ok {
		t.Fatal("duration histogram is not registered")
	}
}

func counterValue(t *testing.T, family *dto.MetricFamily, operation, outcome string) float64 {
	t.Helper()

	for _, metric := range family.GetMetric() {
		labels := make(map[string]string, len(metric.GetLabel()))
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
		if labels["operation"] == operation && labels["outcome"] == outcome {
			return metric.GetCounter().GetValue()
		}
	}

	t.Fatalf("no counter for operation=%s outcome=%s", operation, outcome)
	return 0
}
