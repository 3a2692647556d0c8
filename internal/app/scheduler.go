package app

import (
	"context"
	"time"

	"github.com/bmorton/folio/internal/common"
)

// startPriceScheduler refreshes cached prices for every live session on a
// fixed interval.
func startPriceScheduler(ctx context.Context, sessions *sessionRegistry, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Price scheduler: stopped")
			return
		case <-ticker.C:
			refreshPrices(ctx, sessions, logger)
		}
	}
}

func refreshPrices(ctx context.Context, sessions *sessionRegistry, logger *common.Logger) {
	start := time.Now()

	refreshed := 0
	for _, userID := range sessions.userIDs() {
		s, ok := sessions.get(userID)
		if !ok {
			continue // logged out since the snapshot of IDs
		}

		s.mu.Lock()
		for symbol := range s.portfolio.Holdings() {
			if ctx.Err() != nil {
				s.mu.Unlock()
				return
			}
			if _, err := s.portfolio.RefreshPrice(ctx, symbol); err != nil {
				logger.Warn().Err(err).
					Int64("user_id", userID).
					Str("symbol", symbol).
					Msg("Price refresh: symbol skipped")
				continue
			}
			refreshed++
		}
		s.mu.Unlock()
	}

	if refreshed == 0 {
		return
	}

	logger.Info().
		Int("symbols", refreshed).
		Dur("elapsed", time.Since(start)).
		Msg("Price refresh: complete")
}
