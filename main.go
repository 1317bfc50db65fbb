// Command nna trains a small feedforward network on a CSV file until its
// mean absolute percentage error drops below a bound, then prints its
// predictions next to the real values.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"nna/dataset"
	"nna/neuralnet"
	"nna/trainer"
)

func main() {
	defaults := trainer.DefaultConfig()
	var (
		dataPath    = flag.String("data", "", "CSV file with a header row and numeric records")
		features    = flag.String("features", "", "comma separated input columns")
		target      = flag.String("target", "", "output column")
		hidden      = flag.String("hidden", "8", "comma separated hidden layer sizes")
		minMAPE     = flag.Float64("min-mape", defaults.MinMAPE, "stop once MAPE is at or below this value")
		maxRounds   = flag.Int("max-rounds", defaults.MaxRounds, "upper bound on training rounds")
		dropout     = flag.Float64("dropout", defaults.DropoutRate, "probability of leaving a record out of a round")
		attention   = flag.Bool("attention", false, "feed the network self-attention context vectors")
		modelURI    = flag.String("model", "", "start from the model at this URL or path")
		evalOnly    = flag.Bool("eval", false, "only evaluate -model on the whole dataset")
		savePath    = flag.String("save", "", "write the trained model to this path")
		heatmapPath = flag.String("heatmap", "", "write the last attention scores to this PNG")
		reportEvery = flag.Int("report-every", 50, "print progress every n rounds")
		impact      = flag.String("impact", "", "print how the first record's prediction depends on this feature")
	)
	flag.Parse()

	cols := splitList(*features)
	if *dataPath == "" || len(cols) == 0 || *target == "" {
		flag.Usage()
		os.Exit(2)
	}

	table, err := loadTable(*dataPath)
	if err != nil {
		log.Fatalf("Error loading dataset: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var network *neuralnet.NeuralNetwork
	if *modelURI != "" {
		network, err = neuralnet.Fetch(ctx, *modelURI)
		if err != nil {
			log.Fatalf("Error loading model: %v", err)
		}
		fmt.Println(fmt.Sprintf("Loaded model %v from %s", network.Sizes(), *modelURI))
	}

	if *evalOnly {
		if network == nil {
			log.Fatalf("-eval needs -model")
		}
		if *attention {
			log.Fatalf("-eval cannot be combined with -attention: attention weights are not saved")
		}
		evaluate(network, table, cols, *target, *impact)
		return
	}

	cfg := defaults
	cfg.MinMAPE = *minMAPE
	cfg.MaxRounds = *maxRounds
	cfg.DropoutRate = *dropout
	cfg.UseAttention = *attention
	if cfg.Hidden, err = parseSizes(*hidden); err != nil {
		log.Fatalf("Error parsing -hidden: %v", err)
	}

	opts := []trainer.Option{trainer.WithReporter(trainer.NewWriterReporter(os.Stdout, *reportEvery))}
	if network != nil {
		opts = append(opts, trainer.WithNetwork(network))
	}
	tr, err := trainer.New(cfg, table, cols, *target, opts...)
	if err != nil {
		log.Fatalf("Error configuring training: %v", err)
	}

	fmt.Println(fmt.Sprintf("Training %v on %d records (run %s)", tr.Network().Sizes(), table.Len(), tr.RunID()))
	result, err := tr.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Error training: %v", err)
	}
	if result == nil {
		return
	}

	if err := printPredictions(os.Stdout, result.Samples, result.Predictions); err != nil {
		log.Fatalf("Error printing predictions: %v", err)
	}
	fmt.Println(fmt.Sprintf("Training finished after %d rounds with MAPE %.2f%%", result.Rounds, result.MAPE*100))

	if *impact != "" {
		inputs, err := tr.Transform(result.Samples.Inputs)
		if err != nil {
			log.Fatalf("Error preparing impact record: %v", err)
		}
		printImpact(tr.Network(), inputs[0], cols, *impact)
	}

	if *heatmapPath != "" && result.Scores != nil {
		if err := saveHeatmap(result.Scores, *heatmapPath); err != nil {
			log.Fatalf("Error saving heatmap: %v", err)
		}
	}
	if *savePath != "" {
		if err := tr.Network().Save(*savePath); err != nil {
			log.Fatalf("Error saving model: %v", err)
		}
		fmt.Println(fmt.Sprintf("Model saved as %s", *savePath))
	}
}

func evaluate(network *neuralnet.NeuralNetwork, table *dataset.Table, features []string, target, impact string) {
	samples, err := table.Samples(features, target)
	if err != nil {
		log.Fatalf("Error preparing samples: %v", err)
	}
	eval, err := trainer.Evaluate(network, samples.Inputs, samples.Outputs)
	if err != nil {
		log.Fatalf("Error evaluating model: %v", err)
	}
	if err := printPredictions(os.Stdout, samples, eval.Predictions); err != nil {
		log.Fatalf("Error printing predictions: %v", err)
	}
	fmt.Println(fmt.Sprintf("MAPE %.2f%% on %d records", eval.MAPE*100, len(eval.Predictions)))
	if impact != "" {
		printImpact(network, samples.Inputs[0], features, impact)
	}
}

func printImpact(network *neuralnet.NeuralNetwork, input []float64, features []string, feature string) {
	diff, slope, err := sensitivity(network, input, features, feature)
	if err != nil {
		log.Fatalf("Error measuring impact: %v", err)
	}
	fmt.Println(fmt.Sprintf("Impact of %s on record 0: %+.4f when set to %.1f, gradient %+.4f", feature, diff, neutralFeature, slope))
}
