package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/edsim/edsim/sim"
	"github.com/edsim/edsim/sim/department"
)

// stationFlags holds the per-station CLI overrides.
type stationFlags struct {
	capacity   int
	discipline string
	mean       float64
	stdev      float64
}

// paramFlags mirrors department.Params on the command line. Values only
// reach the parameters when the user set the flag explicitly, so a file
// loaded with --params is never clobbered by flag defaults.
type paramFlags struct {
	warmUp           float64
	simDuration      float64
	runs             int
	seed             int64
	meanInterarrival float64
	priorityWeights  []float64
	pMainLab         float64
	pFastLab         float64
	pED              float64
	stations         map[department.StationName]*stationFlags
}

func stationFlagName(name department.StationName, field string) string {
	return strings.ReplaceAll(string(name), "_", "-") + "-" + field
}

// register adds every parameter flag to fs, with defaults shown from DefaultParams.
func (f *paramFlags) register(fs *pflag.FlagSet) {
	d := department.DefaultParams()
	fs.Float64Var(&f.warmUp, "warm-up", d.WarmUp, "Warm-up period excluded from results (minutes)")
	fs.Float64Var(&f.simDuration, "sim-duration", d.SimDuration, "Observed period after warm-up (minutes)")
	fs.IntVar(&f.runs, "runs", d.Runs, "Number of independent replications")
	fs.Int64Var(&f.seed, "seed", d.Seed, "Master seed; replication r uses streams derived from (seed, r)")
	fs.Float64Var(&f.meanInterarrival, "mean-interarrival", d.MeanInterarrival, "Mean minutes between arrivals (exponential)")
	fs.Float64SliceVar(&f.priorityWeights, "priority-weights", d.PriorityWeights, "Comma-separated probabilities of priorities 1..n")
	fs.Float64Var(&f.pMainLab, "p-main-lab", d.PMainLab, "Probability a main-route patient needs the lab")
	fs.Float64Var(&f.pFastLab, "p-fast-lab", d.PFastLab, "Probability a fast-track patient needs the lab")
	fs.Float64Var(&f.pED, "p-ed", d.PED, "Probability a main-route patient needs a bed")

	f.stations = make(map[department.StationName]*stationFlags, len(department.StationNames))
	for _, name := range department.StationNames {
		st := d.Station(name)
		sf := &stationFlags{}
		f.stations[name] = sf
		fs.IntVar(&sf.capacity, stationFlagName(name, "capacity"), st.Capacity, "Servers at "+string(name))
		fs.StringVar(&sf.discipline, stationFlagName(name, "discipline"), string(st.Discipline), "Queue discipline at "+string(name)+" (fifo, priority)")
		fs.Float64Var(&sf.mean, stationFlagName(name, "mean"), st.Service.Params["mean"], "Mean service time at "+string(name))
		fs.Float64Var(&sf.stdev, stationFlagName(name, "stdev"), st.Service.Params["stdev"], "Service time standard deviation at "+string(name)+" (lognormal only)")
	}
}

// apply copies explicitly set flags into p.
func (f *paramFlags) apply(fs *pflag.FlagSet, p *department.Params) {
	if fs.Changed("warm-up") {
		p.WarmUp = f.warmUp
	}
	if fs.Changed("sim-duration") {
		p.SimDuration = f.simDuration
	}
	if fs.Changed("runs") {
		p.Runs = f.runs
	}
	if fs.Changed("seed") {
		p.Seed = f.seed
	}
	if fs.Changed("mean-interarrival") {
		p.MeanInterarrival = f.meanInterarrival
	}
	if fs.Changed("priority-weights") {
		p.PriorityWeights = append([]float64(nil), f.priorityWeights...)
	}
	if fs.Changed("p-main-lab") {
		p.PMainLab = f.pMainLab
	}
	if fs.Changed("p-fast-lab") {
		p.PFastLab = f.pFastLab
	}
	if fs.Changed("p-ed") {
		p.PED = f.pED
	}
	for _, name := range department.StationNames {
		sf, st := f.stations[name], p.Station(name)
		if fs.Changed(stationFlagName(name, "capacity")) {
			st.Capacity = sf.capacity
		}
		if fs.Changed(stationFlagName(name, "discipline")) {
			st.Discipline = sim.Discipline(sf.discipline)
		}
		if fs.Changed(stationFlagName(name, "mean")) {
			setServiceParam(st, "mean", sf.mean)
		}
		if fs.Changed(stationFlagName(name, "stdev")) {
			setServiceParam(st, "stdev", sf.stdev)
		}
	}
}

func setServiceParam(st *department.StationParams, key string, v float64) {
	if st.Service.Params == nil {
		st.Service.Params = make(map[string]float64)
	}
	st.Service.Params[key] = v
}
