// Package session bridges live portfolio state and the persisted
// per-user session snapshot.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
	"github.com/bmorton/folio/internal/portfolio"
)

// Service loads and persists session snapshots against the session store.
type Service struct {
	store  interfaces.SessionStore
	logger *common.Logger
}

// NewService creates a new session sync service.
func NewService(store interfaces.SessionStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Restore hydrates a portfolio from the user's stored snapshot.
//
// When no snapshot exists, an empty one is created and persisted and the
// portfolio is left untouched. When one exists, the portfolio is cleared,
// cash is restored first, then holdings are loaded one by one. The restore
// is best-effort, not atomic: a failure mid-way leaves cash correct and
// holdings partially loaded.
func (s *Service) Restore(ctx context.Context, userID int64, p *portfolio.Portfolio) error {
	snapshot, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrSnapshotNotFound) {
			if err := s.store.Insert(ctx, models.NewEmptySnapshot(userID)); err != nil {
				return fmt.Errorf("failed to create session for user %d: %w", userID, err)
			}
			s.logger.Info().Int64("user_id", userID).Msg("New session created")
			return nil
		}
		return fmt.Errorf("failed to load session for user %d: %w", userID, err)
	}

	p.Clear()
	if err := p.ChargeFunds(snapshot.CashBalance); err != nil {
		return fmt.Errorf("failed to restore funds for user %d: %w", userID, err)
	}
	for _, h := range snapshot.Holdings {
		p.LoadHolding(h)
	}

	s.logger.Info().
		Int64("user_id", userID).
		Int("holdings", len(snapshot.Holdings)).
		Float64("cash_balance", snapshot.CashBalance).
		Msg("Session restored")
	return nil
}

// Persist overwrites the user's stored snapshot with the portfolio's
// current holdings and cash, then clears the portfolio. The update only
// succeeds against an existing snapshot; if Restore was never called for
// this user the store returns ErrSnapshotNotFound and the portfolio is
// left intact.
func (s *Service) Persist(ctx context.Context, userID int64, p *portfolio.Portfolio) error {
	snapshot := &models.SessionSnapshot{
		UserID:      userID,
		CashBalance: p.CashBalance(),
		Holdings:    p.Holdings(),
	}

	if err := s.store.Update(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist session for user %d: %w", userID, err)
	}

	p.Clear()

	s.logger.Info().
		Int64("user_id", userID).
		Int("holdings", len(snapshot.Holdings)).
		Float64("cash_balance", snapshot.CashBalance).
		Msg("Session persisted")
	return nil
}
