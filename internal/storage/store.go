package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/sim"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunMetadata describes a finished run. The spin grid itself is never stored.
type RunMetadata struct {
	ID                 string               `json:"id"`
	Timestamp          time.Time            `json:"timestamp"`
	Size               int                  `json:"size"`
	Temperature        float64              `json:"temperature"`
	Coupling           float64              `json:"coupling"`
	Seed               int64                `json:"seed"`
	Steps              int                  `json:"steps"`
	Accepted           int                  `json:"accepted"`
	Init               string               `json:"init"`
	Discard            int                  `json:"discard"`
	History            config.HistoryConfig `json:"history"`
	HistoryStart       int                  `json:"history_start"`
	HistoryStride      int                  `json:"history_stride"`
	Elapsed            time.Duration        `json:"elapsed_ns"`
	FinalEnergy        float64              `json:"final_energy"`
	FinalMagnetization float64              `json:"final_magnetization"`
	Metrics            map[string]float64   `json:"metrics"`
}

func NewRunID(size int) string {
	return fmt.Sprintf("ising_L%d_%d_%s", size, time.Now().Unix(), uuid.NewString()[:8])
}

func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID := NewRunID(cfg.Size)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                 runID,
		Timestamp:          time.Now(),
		Size:               cfg.Size,
		Temperature:        cfg.Temperature,
		Coupling:           cfg.Coupling,
		Seed:               cfg.Seed,
		Steps:              result.Steps,
		Accepted:           result.Accepted,
		Init:               cfg.Init,
		Discard:            cfg.Discard,
		History:            cfg.History,
		HistoryStart:       result.History.Start,
		HistoryStride:      result.History.Stride,
		Elapsed:            result.Elapsed,
		FinalEnergy:        result.FinalEnergy,
		FinalMagnetization: result.FinalMagnetization,
		Metrics:            result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, historyFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteHistoryCSV(csvFile, result.History); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadHistory reads a run's recorded series back.
func (s *Store) LoadHistory(runID string) (lattice.History, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return lattice.History{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return lattice.History{}, err
	}

	h := lattice.History{Stride: 1}
	if len(records) < 2 {
		return h, nil
	}

	steps := make([]int, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]

		step, err := strconv.Atoi(record[0])
		if err != nil {
			return lattice.History{}, fmt.Errorf("%s line %d: %w", historyFile, i+1, err)
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return lattice.History{}, fmt.Errorf("%s line %d: %w", historyFile, i+1, err)
		}
		m, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return lattice.History{}, fmt.Errorf("%s line %d: %w", historyFile, i+1, err)
		}

		steps = append(steps, step)
		h.Energy = append(h.Energy, e)
		h.Magnetization = append(h.Magnetization, m)
	}

	h.Start = steps[0]
	if len(steps) > 1 {
		h.Stride = steps[1] - steps[0]
	}
	return h, nil
}

// WriteHistoryCSV writes one step,energy,magnetization row per entry.
func WriteHistoryCSV(out io.Writer, h lattice.History) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"step", "energy", "magnetization"}); err != nil {
		return err
	}
	for i := 0; i < h.Len(); i++ {
		row := []string{
			strconv.Itoa(h.Step(i)),
			strconv.FormatFloat(h.Energy[i], 'g', -1, 64),
			strconv.FormatFloat(h.Magnetization[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
