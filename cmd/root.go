package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edsim/edsim/sim/department"
	"github.com/edsim/edsim/sim/report"
	"github.com/edsim/edsim/sim/trace"
)

var (
	logLevel   string     // Log verbosity level
	paramsPath string     // Optional parameter YAML applied over the defaults
	workers    int        // Replications run in parallel
	outPath    string     // Output file (.csv or .xlsx)
	traceLevel string     // Decision trace verbosity
	runParams  paramFlags // Parameter overrides
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "edsim",
	Short: "Discrete-event simulator for emergency department patient flow",
}

// setLogLevel configures logrus from a --log value.
func setLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)
}

// RunOutput is the JSON document printed by `edsim run`.
type RunOutput struct {
	Seed         int64               `json:"seed"`
	Runs         int                 `json:"runs"`
	WarmUp       float64             `json:"warm_up"`
	SimDuration  float64             `json:"sim_duration"`
	Patients     report.Summary      `json:"patients"`
	Replications report.RunsSummary  `json:"replications"`
	Trace        *trace.TraceSummary `json:"trace,omitempty"`
	WallClockS   float64             `json:"wall_clock_s"`
}

// simulate runs every replication of params and summarizes the dataset
// after dropping warm-up arrivals.
func simulate(ctx context.Context, params department.Params, tr *trace.SimulationTrace, workers int) ([]department.Record, RunOutput, error) {
	start := time.Now()
	ds := department.NewDataset()
	stats, err := department.RunReplications(ctx, params, ds, workers, department.WithTrace(tr))
	if err != nil {
		return nil, RunOutput{}, err
	}
	records := report.FilterWarmUp(ds.Records(), params.WarmUp)
	out := RunOutput{
		Seed:         params.Seed,
		Runs:         params.Runs,
		WarmUp:       params.WarmUp,
		SimDuration:  params.SimDuration,
		Patients:     report.Summarize(records),
		Replications: report.SummarizeRuns(stats),
		WallClockS:   time.Since(start).Seconds(),
	}
	if tr.Enabled() {
		out.Trace = trace.Summarize(tr)
	}
	return records, out, nil
}

func printSummary(w io.Writer, out RunOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== Simulation Summary ===")
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// resolveRunParams layers defaults, the --params file and explicitly set flags.
func resolveRunParams(cmd *cobra.Command) (department.Params, error) {
	params := department.DefaultParams()
	if paramsPath != "" {
		var err error
		if params, err = loadParamsFile(paramsPath, params); err != nil {
			return department.Params{}, err
		}
	}
	runParams.apply(cmd.Flags(), &params)
	return params, params.Validate()
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run replications of one parameter set",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		params, err := resolveRunParams(cmd)
		if err != nil {
			logrus.Fatalf("Invalid parameters: %v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (want none or decisions)", traceLevel)
		}
		var tr *trace.SimulationTrace
		if trace.TraceLevel(traceLevel) == trace.TraceLevelDecisions {
			tr = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
		}

		logrus.Infof("Starting %d replications: warm-up %.0f, duration %.0f, mean interarrival %.2f, seed %d",
			params.Runs, params.WarmUp, params.SimDuration, params.MeanInterarrival, params.Seed)

		records, out, err := simulate(cmd.Context(), params, tr, workers)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if outPath != "" {
			meta := report.Meta{BatchID: report.NewBatchID(), Experiment: "run"}
			if err := report.Export(outPath, records, out.Patients, meta); err != nil {
				logrus.Fatalf("Failed to write results: %v", err)
			}
		}
		if err := printSummary(os.Stdout, out); err != nil {
			logrus.Fatalf("Failed to print summary: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runParams.register(runCmd.Flags())
	runCmd.Flags().StringVar(&paramsPath, "params", "", "Parameter YAML applied over the defaults; explicit flags still win")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Replications run in parallel (0 = unbounded)")
	runCmd.Flags().StringVar(&outPath, "out", "", "Write patient records to this file (.csv or .xlsx)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
