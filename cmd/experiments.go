package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edsim/edsim/sim/report"
)

var (
	defaultsFilePath string   // Path to defaults.yaml
	onlyExperiments  []string // Subset of experiments to run
	outDir           string   // Directory for experiment outputs
	outFormat        string   // csv or xlsx
	expWorkers       int      // Replications run in parallel
	expRuns          int      // Override of Params.Runs for every experiment
)

// ExperimentResult describes one finished experiment.
type ExperimentResult struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Patients int       `json:"patients"`
	Summary  RunOutput `json:"summary"`
}

type experimentOptions struct {
	only    []string
	outDir  string
	format  string
	workers int
	runs    int // 0 keeps each experiment's own value
	batchID string
}

// runExperiments resolves and runs each selected experiment in file order,
// writing one output file per experiment into opts.outDir.
func runExperiments(ctx context.Context, cfg Config, opts experimentOptions) ([]ExperimentResult, error) {
	for _, name := range opts.only {
		if _, ok := cfg.Find(name); !ok {
			return nil, fmt.Errorf("unknown experiment %q", name)
		}
	}
	if opts.format != "csv" && opts.format != "xlsx" {
		return nil, fmt.Errorf("unsupported format %q (want csv or xlsx)", opts.format)
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var results []ExperimentResult
	for _, exp := range cfg.Experiments {
		if len(opts.only) > 0 && !slices.Contains(opts.only, exp.Name) {
			continue
		}
		params, err := exp.Resolve(cfg.Params)
		if err != nil {
			return results, err
		}
		if opts.runs > 0 {
			params.Runs = opts.runs
		}
		if err := params.Validate(); err != nil {
			return results, fmt.Errorf("experiment %s: %w", exp.Name, err)
		}

		logrus.Infof("Experiment %s: %d runs, mean interarrival %.1f", exp.Name, params.Runs, params.MeanInterarrival)
		records, out, err := simulate(ctx, params, nil, opts.workers)
		if err != nil {
			return results, fmt.Errorf("experiment %s: %w", exp.Name, err)
		}
		path := filepath.Join(opts.outDir, exp.Name+"."+opts.format)
		meta := report.Meta{BatchID: opts.batchID, Experiment: exp.Name}
		if err := report.Export(path, records, out.Patients, meta); err != nil {
			return results, err
		}
		results = append(results, ExperimentResult{Name: exp.Name, Path: path, Patients: len(records), Summary: out})
	}
	return results, nil
}

var experimentsCmd = &cobra.Command{
	Use:   "experiments",
	Short: "Run the named experiments from defaults.yaml, one output file each",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		cfg, err := loadDefaultsConfig(defaultsFilePath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		opts := experimentOptions{
			only:    onlyExperiments,
			outDir:  outDir,
			format:  outFormat,
			workers: expWorkers,
			batchID: report.NewBatchID(),
		}
		if cmd.Flags().Changed("runs") {
			opts.runs = expRuns
		}
		logrus.Infof("Batch %s: %d experiments defined in %s", opts.batchID, len(cfg.Experiments), defaultsFilePath)

		results, err := runExperiments(cmd.Context(), cfg, opts)
		if err != nil {
			logrus.Fatalf("Experiments failed: %v", err)
		}
		for _, r := range results {
			fmt.Printf("%s\t%d patients\tmean time in system %.1f\t%s\n",
				r.Name, r.Patients, r.Summary.Patients.TimeInSystem.Mean, r.Path)
		}
	},
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in default parameters as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaults(os.Stdout); err != nil {
			logrus.Fatalf("Failed to print defaults: %v", err)
		}
	},
}

func init() {
	experimentsCmd.Flags().StringVar(&defaultsFilePath, "defaults", "defaults.yaml", "Path to the defaults and experiments YAML")
	experimentsCmd.Flags().StringSliceVar(&onlyExperiments, "only", nil, "Comma-separated experiment names to run (default all)")
	experimentsCmd.Flags().StringVar(&outDir, "out-dir", "data", "Directory for experiment output files")
	experimentsCmd.Flags().StringVar(&outFormat, "format", "csv", "Output format (csv, xlsx)")
	experimentsCmd.Flags().IntVar(&expWorkers, "workers", 0, "Replications run in parallel (0 = unbounded)")
	experimentsCmd.Flags().IntVar(&expRuns, "runs", 0, "Override the number of replications for every experiment")

	rootCmd.AddCommand(experimentsCmd)
	rootCmd.AddCommand(defaultsCmd)
}
