package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"nna/dataset"
	"nna/neuralnet"
)

// heatmapCell is the side length in pixels of one attention score.
const heatmapCell = 8

// neutralFeature replaces a normalized feature when measuring its impact.
const neutralFeature = 0.5

func loadTable(path string) (*dataset.Table, error) {
	fmt.Println(fmt.Sprintf("Loading records from %s", path))
	table, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	fmt.Println(fmt.Sprintf("Loaded %d records with columns %v", table.Len(), table.Columns()))
	return table, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid layer size %q", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// printPredictions writes one row per record with normalized and real
// values side by side.
func printPredictions(w io.Writer, samples *dataset.Samples, predictions []float64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\ttarget\tpredicted\treal\testimate\t")
	for i, p := range predictions {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.2f\t%.2f\t\n", i,
			samples.Outputs[i], p,
			samples.Targets[i], neuralnet.UnnormalizeFeature(samples.Targets, p))
	}
	return tw.Flush()
}

// saveHeatmap renders an attention score matrix as a grayscale PNG, one
// square per score, brighter for higher scores.
func saveHeatmap(scores [][]float64, path string) error {
	n := len(scores)
	img := image.NewGray(image.Rect(0, 0, n*heatmapCell, n*heatmapCell))
	for i, row := range scores {
		for j, s := range row {
			shade := color.Gray{Y: uint8(s * 255.0)}
			for y := i * heatmapCell; y < (i+1)*heatmapCell; y++ {
				for x := j * heatmapCell; x < (j+1)*heatmapCell; x++ {
					img.SetGray(x, y, shade)
				}
			}
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return err
	}
	fmt.Println(fmt.Sprintf("Attention heatmap saved as %s", path))
	return nil
}

// sensitivity measures how the prediction for input depends on one feature:
// the change when the feature is set to neutralFeature and the slope of the
// prediction along it.
func sensitivity(nn *neuralnet.NeuralNetwork, input []float64, features []string, feature string) (impact, slope float64, err error) {
	f := -1
	for i, name := range features {
		if name == feature {
			f = i
		}
	}
	if f < 0 {
		return 0, 0, fmt.Errorf("-impact %q is not one of the features %v", feature, features)
	}
	diff, err := nn.FeatureImpact(input, f, neutralFeature)
	if err != nil {
		return 0, 0, err
	}
	grad, err := nn.InputGradient(input, 0)
	if err != nil {
		return 0, 0, err
	}
	return diff[0], grad[f], nil
}
