package borrowsvc

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner removes borrows left behind by a book deletion that could not run
// as one transaction (MongoDB without a replica set).
type Cleaner interface {
	PurgeOrphans(ctx context.Context) (int64, error)
}

type cleaner struct {
	r Repo
}

func NewCleaner(r Repo) Cleaner { return &cleaner{r: r} }

func (c *cleaner) PurgeOrphans(ctx context.Context) (int64, error) {
	return c.r.DeleteOrphans(ctx)
}

// RunCleaner purges orphans every interval until ctx is done.
func RunCleaner(ctx context.Context, c Cleaner, interval time.Duration, log *slog.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := c.PurgeOrphans(ctx)
			if err != nil {
				log.Error("orphan borrow cleanup failed", "err", err)
				continue
			}
			if n > 0 {
				log.Info("removed orphan borrows", "count", n)
			}
		}
	}
}
