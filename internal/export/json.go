package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/sim"
)

type ExportData struct {
	Size               int                `json:"size"`
	Temperature        float64            `json:"temperature"`
	Coupling           float64            `json:"coupling"`
	Seed               int64              `json:"seed"`
	Steps              int                `json:"steps"`
	Accepted           int                `json:"accepted"`
	HistoryStart       int                `json:"history_start"`
	HistoryStride      int                `json:"history_stride"`
	Energy             []float64          `json:"energy"`
	Magnetization      []float64          `json:"magnetization"`
	FinalEnergy        float64            `json:"final_energy"`
	FinalMagnetization float64            `json:"final_magnetization"`
	Metrics            map[string]float64 `json:"metrics"`
}

func NewExportData(cfg *config.Config, result *sim.Result) ExportData {
	return ExportData{
		Size:               cfg.Size,
		Temperature:        cfg.Temperature,
		Coupling:           cfg.Coupling,
		Seed:               cfg.Seed,
		Steps:              result.Steps,
		Accepted:           result.Accepted,
		HistoryStart:       result.History.Start,
		HistoryStride:      result.History.Stride,
		Energy:             result.History.Energy,
		Magnetization:      result.History.Magnetization,
		FinalEnergy:        result.FinalEnergy,
		FinalMagnetization: result.FinalMagnetization,
		Metrics:            result.Metrics,
	}
}

func ExportJSON(w io.Writer, cfg *config.Config, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cfg, result))
}

func ExportJSONFile(path string, cfg *config.Config, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, cfg, result)
}
