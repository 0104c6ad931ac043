package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Steps:    3,
		Accepted: 2,
		History: lattice.History{
			Start:         0,
			Stride:        1,
			Energy:        []float64{-8, -4, -8},
			Magnetization: []float64{1, 0.5, 1},
		},
		Metrics: map[string]float64{
			"energy_per_site": -1.5,
		},
		FinalEnergy:        -8,
		FinalMagnetization: 1,
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Size = 2
	cfg.Seed = 42
	return cfg
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "ising_L2_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Size != 2 {
		t.Errorf("expected size 2, got %d", meta.Size)
	}

	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}

	if meta.History.Mode != "all" {
		t.Errorf("expected history mode 'all', got '%s'", meta.History.Mode)
	}

	if meta.Metrics["energy_per_site"] != -1.5 {
		t.Errorf("expected energy -1.5, got %f", meta.Metrics["energy_per_site"])
	}

	h, err := st.LoadHistory(runID)
	if err != nil {
		t.Fatalf("load history failed: %v", err)
	}

	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}

	if h.Energy[1] != -4 || h.Magnetization[1] != 0.5 {
		t.Errorf("entry 1 = (%g, %g), want (-4, 0.5)", h.Energy[1], h.Magnetization[1])
	}
}

func TestLoadHistoryStride(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	res := testResult()
	res.History.Start = 20
	res.History.Stride = 10

	runID, err := st.Save(testConfig(), res)
	if err != nil {
		t.Fatal(err)
	}

	h, err := st.LoadHistory(runID)
	if err != nil {
		t.Fatal(err)
	}
	if h.Start != 20 || h.Stride != 10 {
		t.Errorf("start/stride = %d/%d, want 20/10", h.Start, h.Stride)
	}
	if h.Step(2) != 40 {
		t.Errorf("step(2) = %d, want 40", h.Step(2))
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(testConfig(), testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)

	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	if _, err := os.Stat(filepath.Join(runDir, "history.csv")); os.IsNotExist(err) {
		t.Error("history.csv not created")
	}
}

func TestWriteHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	h := lattice.History{Start: 4, Stride: 2, Energy: []float64{-8, -4}, Magnetization: []float64{1, 0.5}}

	if err := WriteHistoryCSV(&buf, h); err != nil {
		t.Fatal(err)
	}

	want := "step,energy,magnetization\n4,-8,1\n6,-4,0.5\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLoadHistoryMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runDir := filepath.Join(tmpDir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "step,energy,magnetization\n0,oops,1\n"
	if err := os.WriteFile(filepath.Join(runDir, "history.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadHistory("bad"); err == nil {
		t.Error("expected parse error")
	}
}
