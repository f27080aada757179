package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordProbe(t *testing.T) {
	before := testutil.ToFloat64(probesTotal.WithLabelValues("pion", "absent"))
	totals := GetEngineTotals()

	RecordProbe("pion", false)

	if got := testutil.ToFloat64(probesTotal.WithLabelValues("pion", "absent")); got != before+1 {
		t.Errorf("probes_total{pion,absent} = %v, want %v", got, before+1)
	}
	if got := GetEngineTotals().Probes; got != totals.Probes+1 {
		t.Errorf("Probes total = %d, want %d", got, totals.Probes+1)
	}
}

func TestRecordResults(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		metric func() float64
	}{
		{
			"materialization success",
			func() { RecordMaterialization("slog", true) },
			func() float64 { return testutil.ToFloat64(materializationsTotal.WithLabelValues("slog", "success")) },
		},
		{
			"invocation failure",
			func() { RecordInvocation("SetLevel", false) },
			func() float64 { return testutil.ToFloat64(invocationsTotal.WithLabelValues("SetLevel", "failure")) },
		},
		{
			"level update success",
			func() { RecordLevelUpdate(true) },
			func() float64 { return testutil.ToFloat64(levelUpdatesTotal.WithLabelValues("success")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.metric()
			tt.record()
			if got := tt.metric(); got != before+1 {
				t.Errorf("counter = %v, want %v", got, before+1)
			}
		})
	}
}

func TestScopeFrameworksCache(t *testing.T) {
	scope := "test-scope-1"
	DeleteScopeMetrics(scope)

	if fws := GetScopeFrameworks(scope); fws != nil {
		t.Error("expected nil for unknown scope")
	}

	SetScopeFrameworks(scope, []string{"slog", "charm"})
	if got := testutil.ToFloat64(scopeFrameworks.WithLabelValues(scope, "charm")); got != 1 {
		t.Errorf("scope_framework{charm} = %v, want 1", got)
	}

	SetScopeFrameworks(scope, []string{"slog"})
	fws := GetScopeFrameworks(scope)
	if len(fws) != 1 || fws[0] != "slog" {
		t.Errorf("GetScopeFrameworks() = %v, want [slog]", fws)
	}

	DeleteScopeMetrics(scope)
	if fws := GetScopeFrameworks(scope); fws != nil {
		t.Error("expected nil after delete")
	}
}

func TestLiveScopes(t *testing.T) {
	SetLiveScopes(3)
	if got := GetLiveScopes(); got != 3 {
		t.Errorf("GetLiveScopes() = %d, want 3", got)
	}
	if got := testutil.ToFloat64(liveScopes); got != 3 {
		t.Errorf("scopes gauge = %v, want 3", got)
	}
}

func TestScopeCacheConcurrency(_ *testing.T) {
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			scope := "concurrent-" + string(rune('a'+id))
			SetScopeFrameworks(scope, []string{"pion"})
			_ = GetScopeFrameworks(scope)
			_ = RecordedScopes()
			DeleteScopeMetrics(scope)
		}(i)
	}
	wg.Wait()
}
