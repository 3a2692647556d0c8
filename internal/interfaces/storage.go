package interfaces

import (
	"context"
	"errors"

	"github.com/bmorton/folio/internal/models"
)

// ErrSnapshotNotFound is returned when no session snapshot exists for a
// user and the operation required one.
var ErrSnapshotNotFound = errors.New("session snapshot not found")

// ErrDuplicateSnapshot is returned by Insert when a snapshot already
// exists for the user.
var ErrDuplicateSnapshot = errors.New("session snapshot already exists")

// StorageManager coordinates the storage backends.
type StorageManager interface {
	SessionStore() SessionStore

	// DataPath returns the base data directory path for raw artifacts.
	DataPath() string

	// WriteRaw writes arbitrary binary data (e.g. chart PNGs) under a
	// subdirectory of DataPath. Key is sanitized for safe filenames.
	WriteRaw(subdir, key string, data []byte) error

	Close() error
}

// SessionStore persists one snapshot document per user.
// There is no concurrency token: concurrent updates for the same user are
// last-write-wins.
type SessionStore interface {
	// Get retrieves the snapshot for a user.
	// Returns ErrSnapshotNotFound when absent.
	Get(ctx context.Context, userID int64) (*models.SessionSnapshot, error)

	// Insert creates a new snapshot. Returns ErrDuplicateSnapshot when a
	// snapshot for the user already exists.
	Insert(ctx context.Context, snapshot *models.SessionSnapshot) error

	// Update overwrites the existing snapshot wholesale. It only succeeds
	// when a snapshot for the user already exists; otherwise it returns
	// ErrSnapshotNotFound and leaves the store unchanged.
	Update(ctx context.Context, snapshot *models.SessionSnapshot) error

	// Delete removes the snapshot for a user. Deleting an absent snapshot
	// is not an error.
	Delete(ctx context.Context, userID int64) error
}

// UserStore manages user account rows and the symbol catalog in the
// relational store.
type UserStore interface {
	CreateUser(ctx context.Context, username, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserID(ctx context.Context, username string) (int64, error)
	DeleteUser(ctx context.Context, username string) error

	UpsertCatalog(ctx context.Context, entries []models.CatalogEntry) error
	ListCatalog(ctx context.Context) ([]models.CatalogEntry, error)

	Close() error
}
