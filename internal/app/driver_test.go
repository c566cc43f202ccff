package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stellarlinkco/hookbench/internal/battery"
	"github.com/stellarlinkco/hookbench/internal/runner"
	"github.com/stellarlinkco/hookbench/internal/sandbox"
	"github.com/stellarlinkco/hookbench/internal/store"
)

const activationLine = `{"type":"tool_use","name":"Skill","input":{"skill":"svelte-runes"}}`

// fakeFleet emulates the provisioning service for a whole experiment. The
// monitor exec response depends on which case's query file the command
// names, so different cases can produce different signals.
type fakeFleet struct {
	mu          sync.Mutex
	created     int
	deleted     int
	failCreates int
	failDeletes bool
}

func (f *fakeFleet) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/sandboxes":
			f.mu.Lock()
			f.created++
			fail := f.failCreates > 0
			if fail {
				f.failCreates--
			}
			n := f.created
			f.mu.Unlock()
			if fail {
				http.Error(w, `{"message":"quota"}`, http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"sandbox_id": fmt.Sprintf("sb-%d", n)})
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/sandboxes/"):
			f.mu.Lock()
			f.deleted++
			fail := f.failDeletes
			f.mu.Unlock()
			if fail {
				http.Error(w, `{"message":"gone wrong"}`, http.StatusConflict)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case strings.HasSuffix(r.URL.Path, "/exec"):
			var req struct {
				Command string `json:"command"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			res := sandbox.ExecResult{}
			if strings.Contains(req.Command, "monitor") && strings.Contains(req.Command, "base-001") {
				res.Stdout = activationLine
			}
			_ = json.NewEncoder(w).Encode(res)
		case strings.HasSuffix(r.URL.Path, "/files"):
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "bad route", http.StatusNotFound)
		}
	})
}

func (f *fakeFleet) counts() (created, deleted int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created, f.deleted
}

func newTestDriver(t *testing.T, f *fakeFleet) *Driver {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	sb := sandbox.NewClient("k",
		sandbox.WithBaseURL(srv.URL),
		sandbox.WithRetryElapsed(200*time.Millisecond),
	)
	run := runner.New(sb, runner.Config{MonitorTimeout: 5 * time.Second, WaitSlack: time.Second})
	d := NewDriver(sb, run, sandbox.Assets{
		SkillsDir: filepath.Join(t.TempDir(), "absent"),
		HooksDir:  filepath.Join(t.TempDir(), "absent"),
	})
	d.logf = t.Logf
	return d
}

func twoCaseBattery() battery.Battery {
	return battery.Battery{
		Name: "mini",
		Cases: []battery.Case{
			{ID: "base-001", Query: "How do I use $state?", ExpectedSkill: "svelte-runes"},
			{ID: "base-002", Query: "Set up form actions", ExpectedSkill: "sveltekit-forms"},
		},
	}
}

func TestExecute_HalfActivation(t *testing.T) {
	t.Parallel()

	f := &fakeFleet{}
	d := newTestDriver(t, f)

	out, err := d.Execute(context.Background(), Experiment{
		Battery:   twoCaseBattery(),
		ConfigIDs: []string{"control"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(out.Results) != 1 || len(out.FailedConfigs) != 0 {
		t.Fatalf("outcome = %+v", out)
	}

	cr := out.Results[0]
	if cr.ConfigID != "control" || cr.TotalTests != 2 {
		t.Fatalf("result = %+v", cr)
	}
	if cr.ActivationRate != 0.5 || cr.AccuracyRate != 0.5 {
		t.Fatalf("rates = %v/%v, want 0.5/0.5", cr.ActivationRate, cr.AccuracyRate)
	}

	// One sandbox per configuration, torn down afterwards.
	if created, deleted := f.counts(); created != 1 || deleted != 1 {
		t.Fatalf("created=%d deleted=%d", created, deleted)
	}
}

func TestExecute_ProvisionFailureSkipsConfig(t *testing.T) {
	t.Parallel()

	f := &fakeFleet{failCreates: 1}
	d := newTestDriver(t, f)

	out, err := d.Execute(context.Background(), Experiment{
		Battery:   twoCaseBattery(),
		ConfigIDs: []string{"control", "prompt-hook"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(out.FailedConfigs) != 1 || out.FailedConfigs[0] != "control" {
		t.Fatalf("failed = %v", out.FailedConfigs)
	}
	if len(out.Results) != 1 || out.Results[0].ConfigID != "prompt-hook" {
		t.Fatalf("results = %+v", out.Results)
	}
}

func TestExecute_TeardownFailureKeepsResults(t *testing.T) {
	t.Parallel()

	f := &fakeFleet{failDeletes: true}
	d := newTestDriver(t, f)

	out, err := d.Execute(context.Background(), Experiment{
		Battery:   twoCaseBattery(),
		ConfigIDs: []string{"control"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(out.FailedConfigs) != 0 {
		t.Fatalf("failed = %v, teardown failure must not drop the config", out.FailedConfigs)
	}
	if len(out.Results) != 1 || out.Results[0].TotalTests != 2 {
		t.Fatalf("results = %+v", out.Results)
	}
}

func TestExecute_AllConfigsFailed(t *testing.T) {
	t.Parallel()

	f := &fakeFleet{failCreates: 2}
	d := newTestDriver(t, f)

	_, err := d.Execute(context.Background(), Experiment{
		Battery:   twoCaseBattery(),
		ConfigIDs: []string{"control", "prompt-hook"},
	})
	if err == nil || !strings.Contains(err.Error(), "all 2 configurations failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestExecute_UnknownConfig(t *testing.T) {
	t.Parallel()

	f := &fakeFleet{}
	d := newTestDriver(t, f)

	_, err := d.Execute(context.Background(), Experiment{
		Battery:   twoCaseBattery(),
		ConfigIDs: []string{"control", "nope"},
	})
	if err == nil {
		t.Fatal("unknown config accepted")
	}
	if created, _ := f.counts(); created != 0 {
		t.Fatalf("sandboxes created before validation: %d", created)
	}
}

func TestExecute_EmptyInputs(t *testing.T) {
	t.Parallel()

	d := newTestDriver(t, &fakeFleet{})

	if _, err := d.Execute(context.Background(), Experiment{Battery: twoCaseBattery()}); err == nil {
		t.Fatal("no configs accepted")
	}
	if _, err := d.Execute(context.Background(), Experiment{ConfigIDs: []string{"control"}}); err == nil {
		t.Fatal("empty battery accepted")
	}
}

func TestSaveOutcome(t *testing.T) {
	t.Parallel()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	f := &fakeFleet{}
	d := newTestDriver(t, f)
	out, err := d.Execute(context.Background(), Experiment{
		Battery:   twoCaseBattery(),
		ConfigIDs: []string{"control"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	ctx := context.Background()
	rec, err := SaveOutcome(ctx, st, "mini", out)
	if err != nil {
		t.Fatalf("SaveOutcome: %v", err)
	}
	if rec.Battery != "mini" || rec.TotalConfigs != 1 {
		t.Fatalf("record = %+v", rec)
	}

	stored, err := st.GetConfigResults(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetConfigResults: %v", err)
	}
	if len(stored) != 1 || stored[0].ConfigID != "control" || len(stored[0].Results) != 2 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestSaveOutcome_Validation(t *testing.T) {
	t.Parallel()

	if _, err := SaveOutcome(context.Background(), nil, "b", &Outcome{}); err == nil {
		t.Fatal("nil writer accepted")
	}
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, err := SaveOutcome(context.Background(), st, "b", nil); err == nil {
		t.Fatal("nil outcome accepted")
	}
}
