package department

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RunReplications runs params.Runs independent replications, at most workers
// at a time (unbounded when workers <= 0), all appending to sink. Replication
// r draws from streams keyed by params.Seed and r, so results do not depend
// on scheduling. Stats are returned indexed by run.
//
// opts are applied to every replication, concurrently when workers != 1.
// Options carrying stateful samplers must be wrapped in PerRun.
func RunReplications(ctx context.Context, params Params, sink Sink, workers int, opts ...Option) ([]RunStats, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if load := params.TriageLoad(); load >= 1 {
		logrus.Warnf("triage offered load is %.2f; the triage queue will grow without bound", load)
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	stats := make([]RunStats, params.Runs)
	for run := 0; run < params.Runs; run++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := New(params, run, sink, opts...)
			if err != nil {
				return fmt.Errorf("replication %d: %w", run, err)
			}
			stats[run] = d.Run()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
