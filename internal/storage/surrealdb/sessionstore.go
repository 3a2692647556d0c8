package surrealdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
)

// SessionStore persists portfolio snapshots keyed by user ID.
type SessionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewSessionStore(db *surrealdb.DB, logger *common.Logger) *SessionStore {
	return &SessionStore{
		db:     db,
		logger: logger,
	}
}

func sessionRecordID(userID int64) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("session", strconv.FormatInt(userID, 10))
}

func (s *SessionStore) Get(ctx context.Context, userID int64) (*models.SessionSnapshot, error) {
	snapshot, err := surrealdb.Select[models.SessionSnapshot](ctx, s.db, sessionRecordID(userID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to select session snapshot: %w", err)
	}
	if snapshot == nil || snapshot.UserID == 0 {
		return nil, interfaces.ErrSnapshotNotFound
	}
	return snapshot, nil
}

func (s *SessionStore) Insert(ctx context.Context, snapshot *models.SessionSnapshot) error {
	existing, err := surrealdb.Select[models.SessionSnapshot](ctx, s.db, sessionRecordID(snapshot.UserID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to check for existing snapshot: %w", err)
	}
	if existing != nil && existing.UserID != 0 {
		return interfaces.ErrDuplicateSnapshot
	}

	sql := "CREATE $rid CONTENT $snapshot"
	vars := map[string]any{
		"rid":      sessionRecordID(snapshot.UserID),
		"snapshot": snapshot,
	}
	if _, err := surrealdb.Query[[]models.SessionSnapshot](ctx, s.db, sql, vars); err != nil {
		if isExistsError(err) {
			return interfaces.ErrDuplicateSnapshot
		}
		return fmt.Errorf("failed to insert session snapshot: %w", err)
	}

	s.logger.Debug().
		Int64("user_id", snapshot.UserID).
		Msg("Session snapshot created")
	return nil
}

// Update overwrites an existing snapshot. The record must already exist;
// updating an absent session reports ErrSnapshotNotFound without creating one.
func (s *SessionStore) Update(ctx context.Context, snapshot *models.SessionSnapshot) error {
	sql := "UPDATE $rid CONTENT $snapshot RETURN AFTER"
	vars := map[string]any{
		"rid":      sessionRecordID(snapshot.UserID),
		"snapshot": snapshot,
	}

	results, err := surrealdb.Query[[]models.SessionSnapshot](ctx, s.db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to update session snapshot: %w", err)
	}

	matched := 0
	if results != nil && len(*results) > 0 {
		matched = len((*results)[0].Result)
	}
	if matched == 0 {
		return interfaces.ErrSnapshotNotFound
	}

	s.logger.Debug().
		Int64("user_id", snapshot.UserID).
		Int("holdings", len(snapshot.Holdings)).
		Float64("cash_balance", snapshot.CashBalance).
		Msg("Session snapshot updated")
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, userID int64) error {
	_, err := surrealdb.Delete[models.SessionSnapshot](ctx, s.db, sessionRecordID(userID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no record")
}

func isExistsError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

var _ interfaces.SessionStore = (*SessionStore)(nil)
