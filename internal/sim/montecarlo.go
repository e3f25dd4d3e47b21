// Monte Carlo exploration — independent runs of one proposal across many
// seeds. Fan-out/fan-in: every run owns its RNG, agents, and log; results
// land in per-index slots and merge only after each run completes.
package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/accord/internal/issue"
)

// Explore simulates the proposal n times with seeds baseSeed..baseSeed+n−1,
// at most workers runs in flight at once. Runs come back in seed order.
func (r *Runner) Explore(ctx context.Context, p issue.Proposal, duration, n, workers int, baseSeed int64) ([]*Run, error) {
	if workers < 1 {
		workers = 1
	}
	runs := make([]*Run, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			run, err := r.Run(ctx, p, duration, baseSeed+int64(i))
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}
