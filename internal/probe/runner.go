package probe

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Run starts every probe concurrently and returns a channel that yields
// their results in completion order. The channel is closed once all probes
// have finished. A positive timeout bounds each probe individually.
func Run(ctx context.Context, env Env, probes []Probe, timeout time.Duration) <-chan Result {
	out := make(chan Result, len(probes))

	var wg sync.WaitGroup
	wg.Add(len(probes))

	for _, p := range probes {
		go func(p Probe) {
			defer wg.Done()

			pctx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				pctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			results := p.Run(pctx, env)
			slog.Debug("probe finished",
				slog.String("probe", p.Name),
				slog.Int("results", len(results)),
				slog.Duration("elapsed", time.Since(start)),
			)

			for _, r := range results {
				out <- r
			}
		}(p)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// RunAll is Run followed by a full drain.
func RunAll(ctx context.Context, env Env, probes []Probe, timeout time.Duration) []Result {
	var results []Result
	for r := range Run(ctx, env, probes, timeout) {
		results = append(results, r)
	}
	return results
}
