package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/sim"
)

func TestLatticeToSVG(t *testing.T) {
	spins := [][]lattice.Spin{
		{lattice.Up, lattice.Down},
		{lattice.Down, lattice.Up},
	}
	svg := LatticeToSVG(spins, 10, "", "")

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Contains(t, svg, `width="20" height="20"`)
	assert.Contains(t, svg, DefaultDownColor)
	assert.Equal(t, 2, strings.Count(svg, `width="10.0"`), "one rect per up spin")
	assert.Contains(t, svg, `<rect x="10.0" y="10.0"`)

	assert.Empty(t, LatticeToSVG(nil, 10, "", ""))
}

func TestSeriesToSVG(t *testing.T) {
	assert.Empty(t, SeriesToSVG([]float64{1}, 0, 1, 100, 50, "#fff"))

	svg := SeriesToSVG([]float64{0, 1, 0}, 10, 5, 100, 50, "#ff0000")
	assert.Contains(t, svg, `stroke="#ff0000"`)
	assert.Contains(t, svg, "M0.0,")
	assert.Contains(t, svg, "L100.0,")
	assert.Equal(t, 2, strings.Count(svg, " L"))
}

func TestExportJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Size = 4
	res := &sim.Result{
		Steps: 2,
		History: lattice.History{
			Stride:        1,
			Energy:        []float64{-32, -24},
			Magnetization: []float64{1, 0.875},
		},
		Metrics: map[string]float64{"binder": 0.6},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, cfg, res))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 4, got.Size)
	assert.Equal(t, []float64{-32, -24}, got.Energy)
	assert.Equal(t, 0.6, got.Metrics["binder"])

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, ExportJSONFile(path, cfg, res))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, buf.String(), string(data))
}
