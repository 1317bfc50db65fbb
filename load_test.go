package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nna/dataset"
	"nna/neuralnet"
)

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes("8, 4,2")
	require.NoError(t, err)
	assert.Equal(t, []int{8, 4, 2}, sizes)

	sizes, err = parseSizes("")
	require.NoError(t, err)
	assert.Empty(t, sizes)

	_, err = parseSizes("8,zero")
	assert.Error(t, err)
	_, err = parseSizes("0")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"revenue", "cost"}, splitList(" revenue, ,cost "))
	assert.Empty(t, splitList(""))
}

func TestPrintPredictions(t *testing.T) {
	samples := &dataset.Samples{
		Inputs:  [][]float64{{0}, {1}},
		Outputs: []float64{0, 1},
		Targets: []float64{10, 30},
	}
	var buf bytes.Buffer
	require.NoError(t, printPredictions(&buf, samples, []float64{0.5, 1}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "estimate")
	assert.Contains(t, lines[1], "20.00")
	assert.Contains(t, lines[2], "30.00")
}

func TestSaveHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.png")
	require.NoError(t, saveHeatmap([][]float64{{1, 0}, {0.5, 0.5}}, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 2*heatmapCell, img.Bounds().Dx())

	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	r, _, _, _ = img.At(heatmapCell, 0).RGBA()
	assert.Equal(t, uint32(0), r)
}

func TestSensitivity(t *testing.T) {
	nn := neuralnet.NewNeuralNetwork(2, 1)
	nn.Levels[0].Weights = [][]float64{{2}, {3}}
	nn.Levels[0].Biases = []float64{0}

	impact, slope, err := sensitivity(nn, []float64{1, 1}, []string{"cost", "revenue"}, "revenue")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, impact, 1e-12)
	assert.InDelta(t, 3.0, slope, 1e-6)

	_, _, err = sensitivity(nn, []float64{1, 1}, []string{"cost", "revenue"}, "margin")
	assert.Error(t, err)
}
