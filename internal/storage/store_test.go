package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/physics"
	"github.com/guisoares9/tradespace-designer/internal/solver"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

func testResult() *tradespace.SweepResult {
	hw := solver.Hardware{
		Propeller:  catalog.Propeller{Name: "10x4.5", Diameter: 10, Pitch: 4.5, Blades: 2},
		Motor:      catalog.Motor{Name: "890KV", KV: 890, NoLoadVoltage: 10, NoLoadCurrent: 0.5, Resistance: 0.101},
		Battery:    catalog.Battery{Name: "3S", Voltage: 12, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.01},
		ESC:        catalog.IdealESC(),
		MotorCount: 4,
		BaseMass:   1.5,
	}
	feasible := tradespace.Candidate{
		Index:         0,
		Configuration: solver.Configuration{Hardware: hw, Throttle: 0.8, Environment: physics.SeaLevel()},
		Status:        tradespace.StatusFeasible,
		Result:        solver.PerformanceResult{RotorSpeed: 7156, TotalThrust: 27.6, Mass: 1.5, Converged: true, Iterations: 4},
		Verdict:       feasibility.Verdict{Accepted: true},
		OnFront:       true,
	}
	failed := tradespace.Candidate{
		Index:         1,
		Configuration: solver.Configuration{Hardware: hw, Throttle: 1.2, Environment: physics.SeaLevel()},
		Status:        tradespace.StatusUnevaluable,
		Failure:       tradespace.FailureInvalidConfiguration,
		Error:         "throttle out of range",
		Rank:          -1,
	}
	return &tradespace.SweepResult{
		Candidates:  []tradespace.Candidate{feasible, failed},
		Front:       []tradespace.Candidate{feasible},
		Objectives:  tradespace.DefaultObjectives(),
		Total:       2,
		Planned:     2,
		Evaluated:   2,
		Feasible:    1,
		Unevaluable: 1,
		Duration:    time.Millisecond,
	}
}

func TestStoreSaveCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	// NaN has no JSON encoding, so result.json fails after metadata.json
	// and request.json are already on disk.
	r := testResult()
	r.Candidates[0].Utility = math.NaN()

	if _, err := st.Save("broken", tradespace.Request{}, r); err == nil {
		t.Fatal("expected save to fail on a non-finite value")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directories after a failed save, got %d", len(entries))
	}
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("unit", tradespace.Request{}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "unit" {
		t.Errorf("expected name 'unit', got '%s'", meta.Name)
	}
	if meta.FrontSize != 1 || meta.Unevaluable != 1 {
		t.Errorf("unexpected counts: %+v", meta)
	}

	r, err := st.LoadResult(runID)
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}
	if len(r.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(r.Candidates))
	}
	if r.Candidates[0].Result.RotorSpeed != 7156 {
		t.Errorf("rotor speed lost: %g", r.Candidates[0].Result.RotorSpeed)
	}
	if r.Objectives[0].Metric != "hover_time" {
		t.Errorf("objectives lost: %+v", r.Objectives)
	}

	if _, err := st.LoadRequest(runID); err != nil {
		t.Errorf("load request failed: %v", err)
	}

	path, err := st.CandidatesPath(runID)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("expected header plus 2 rows, got %d", len(records))
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	first, err := st.Save("first", tradespace.Request{}, testResult())
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := st.Save("second", tradespace.Request{}, testResult())
	if err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s then %s", runs[0].Name, runs[1].Name)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/missing")
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	for _, id := range []string{"6f1c2a9e-3b7d-4c55-8e2a-1d9b0f7c4e21", "../etc", ""} {
		if _, err := st.Load(id); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("%q: expected ErrRunNotFound, got %v", id, err)
		}
	}
}

func TestWriteCSVFrontOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testResult(), true); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(records))
	}
	header := records[0]
	if len(records[1]) != len(header) {
		t.Errorf("row has %d fields, header %d", len(records[1]), len(header))
	}
	if header[0] != "index" || records[1][1] != "feasible" {
		t.Errorf("unexpected table: %v", records)
	}
}

func TestWriteCSVUnevaluableBlank(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testResult(), false); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	row := records[2]
	metricCol := len(CSVHeader()) - len(solver.MetricNames()) - 3
	if row[metricCol] != "" {
		t.Errorf("expected blank metric for unevaluable candidate, got %q", row[metricCol])
	}
	if row[len(row)-1] != "throttle out of range" {
		t.Errorf("error column: got %q", row[len(row)-1])
	}
}
