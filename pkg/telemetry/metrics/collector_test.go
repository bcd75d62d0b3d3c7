package metrics

import (
	"errors"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"sentra-labs/sentra/pkg/config"
)

func testCollector(t *testing.T, enabled bool) *Collector {
	t.Helper()

	return NewCollector(&config.MetricsConfig{
		Enabled:   enabled,
		Namespace: "sentra",
		Subsystem: "governance",
	}, nil)
}

// gather returns the metric family by full name, nil when absent or empty.
func gather(t *testing.T, c *Collector, name string) *dto.MetricFamily {
	t.Helper()

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestRecordDecision(t *testing.T) {
	c := testCollector(t, true)

	c.RecordDecision("approved", 0, time.Millisecond)
	c.RecordDecision("approved", 5, time.Millisecond)
	c.RecordDecision("blocked", 25, 2*time.Millisecond)

	mf := gather(t, c, "sentra_governance_decisions_total")
	if mf == nil {
		t.Fatal("decisions_total not registered")
	}

	counts := make(map[string]float64)
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "status" {
				counts[l.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	if counts["approved"] != 2 || counts["blocked"] != 1 {
		t.Errorf("counts = %v", counts)
	}

	hist := gather(t, c, "sentra_governance_decision_risk_score")
	if hist == nil || hist.GetMetric()[0].GetHistogram().GetSampleCount() != 3 {
		t.Errorf("risk score histogram = %v", hist)
	}
}

func TestRecordExtraction(t *testing.T) {
	c := testCollector(t, true)

	c.RecordExtraction(5, 2)
	c.RecordExtraction(3, 0)

	rules := gather(t, c, "sentra_governance_rules_extracted_total")
	if rules == nil || rules.GetMetric()[0].GetCounter().GetValue() != 8 {
		t.Errorf("rules_extracted_total = %v", rules)
	}
	skipped := gather(t, c, "sentra_governance_clauses_skipped_total")
	if skipped == nil || skipped.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Errorf("clauses_skipped_total = %v", skipped)
	}
}

func TestObserveAuditAppend(t *testing.T) {
	c := testCollector(t, true)

	c.ObserveAuditAppend(time.Millisecond, nil)
	c.ObserveAuditAppend(2*time.Millisecond, errors.New("disk full"))

	dur := gather(t, c, "sentra_governance_audit_append_duration_seconds")
	if dur == nil || dur.GetMetric()[0].GetHistogram().GetSampleCount() != 2 {
		t.Errorf("append duration histogram = %v", dur)
	}
	errsMF := gather(t, c, "sentra_governance_audit_append_errors_total")
	if errsMF == nil || errsMF.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Errorf("append errors = %v", errsMF)
	}
}

func TestSetActiveRules(t *testing.T) {
	c := testCollector(t, true)

	c.SetActiveRules(7)
	c.SetActiveRules(3)

	mf := gather(t, c, "sentra_governance_active_ruleset_rules")
	if mf == nil || mf.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Errorf("active rules gauge = %v", mf)
	}
}

func TestDisabledCollectorRecordsNothing(t *testing.T) {
	c := testCollector(t, false)

	c.RecordDecision("approved", 5, time.Millisecond)
	c.RecordExtraction(5, 2)
	c.SetActiveRules(7)

	mf := gather(t, c, "sentra_governance_rules_extracted_total")
	if mf != nil && mf.GetMetric()[0].GetCounter().GetValue() != 0 {
		t.Errorf("disabled collector recorded extraction: %v", mf)
	}
	decisions := gather(t, c, "sentra_governance_decisions_total")
	if decisions != nil && len(decisions.GetMetric()) != 0 {
		t.Errorf("disabled collector recorded decisions: %v", decisions)
	}
}

func TestCollectorFillsNamespaceDefaults(t *testing.T) {
	c := NewCollector(&config.MetricsConfig{Enabled: true}, nil)

	c.RecordExtraction(1, 0)
	if gather(t, c, "sentra_governance_rules_extracted_total") == nil {
		t.Error("default namespace/subsystem not applied")
	}
}
