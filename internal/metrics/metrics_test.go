package metrics

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/store/memory"
)

func TestRegisterAndHelpers(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	// Second registration is a no-op.
	if err := Register(reg); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	IncCreated("batch-job")
	IncCompleted("batch-job", "COMPLETED")
	ObserveDuration("batch-job", "COMPLETED", 12.5)
	SetActive(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	for _, name := range []string{
		"totrackit_processes_created_total",
		"totrackit_processes_completed_total",
		"totrackit_processes_duration_seconds",
		"totrackit_processes_active",
	} {
		if !found[name] {
			t.Fatalf("metric %s not gathered (have %v)", name, found)
		}
	}
}

func TestUpdaterRefreshesActiveGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}

	st := memory.New()
	for _, id := range []string{"a", "b"} {
		p := &process.Process{Name: "job", ProcessID: id, Status: process.StatusActive, StartedAt: time.Now().UTC()}
		if err := st.Save(context.Background(), p); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	u := NewUpdater(st, 10*time.Millisecond, slog.Default())
	u.Start()
	defer u.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for {
		mfs, err := reg.Gather()
		if err != nil {
			t.Fatalf("gather: %v", err)
		}
		var val float64
		for _, mf := range mfs {
			if mf.GetName() == "totrackit_processes_active" && len(mf.GetMetric()) > 0 {
				val = mf.GetMetric()[0].GetGauge().GetValue()
			}
		}
		if val == 2 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("gauge never reached 2, last %v", val)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
