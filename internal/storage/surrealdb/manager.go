// Package surrealdb implements the document-store backends on SurrealDB.
package surrealdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db       *surrealdb.DB
	logger   *common.Logger
	dataPath string

	sessionStore *SessionStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables to ensure they exist (SurrealDB v3 errors on querying non-existent tables)
	for _, table := range []string{"session"} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	dataPath := config.Storage.DataPath
	if dataPath == "" {
		dataPath = "data/artifacts"
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data path: %w", err)
	}

	m := &Manager{
		db:       db,
		logger:   logger,
		dataPath: dataPath,
	}
	m.sessionStore = NewSessionStore(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func (m *Manager) SessionStore() interfaces.SessionStore {
	return m.sessionStore
}

func (m *Manager) DataPath() string {
	return m.dataPath
}

// WriteRaw stores binary data (e.g. charts) under the data path.
// Key is sanitized for safe filenames.
func (m *Manager) WriteRaw(subdir, key string, data []byte) error {
	sanitized := strings.NewReplacer("/", "_", "..", "_", " ", "_").Replace(key)
	dir := filepath.Join(m.dataPath, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, sanitized)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
