package services

import (
	"context"
	"time"

	applog "fintrack/internal/log"
)

// RunPruner calls ledger.Prune every interval until ctx is done. A
// non-positive interval returns immediately.
func RunPruner(ctx context.Context, ledger RevocationLedger, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			n, err := ledger.Prune(ctx, now.UTC())
			if err != nil {
				applog.Error(nil, "revocation.prune.fail", err, nil)
				continue
			}
			if n > 0 {
				applog.Info(nil, "revocation.prune", map[string]any{"removed": n})
			}
		}
	}
}
