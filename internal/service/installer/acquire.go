package installer

import (
	"context"

	"github.com/alexhub/hub-installer/internal/logger"
)

// strategy is one way of getting the application files into the staging
// area. Strategies are tried in order until one succeeds.
type strategy struct {
	name  string
	fetch func(ctx context.Context) error
}

// strategies returns the acquisition order: the full-archive snapshot
// first, then the per-file manifest walk.
func (r *runner) strategies() []strategy {
	return []strategy{
		{name: "archive", fetch: r.acquireArchive},
		{name: "per-file", fetch: r.acquireFiles},
	}
}

// acquire runs the strategies in order. Individual strategy failures are
// logged and the next one is tried; the step only fails when every
// strategy has failed.
func (r *runner) acquire(ctx context.Context) error {
	for _, s := range r.strategies() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.fetch(ctx); err != nil {
			logger.WarnKV(ctx, "Acquisition strategy failed",
				"strategy", s.name, "error", err)

			continue
		}

		logger.InfoKV(ctx, "Application files staged", "strategy", s.name)

		return nil
	}

	return errAcquisitionFailed
}
