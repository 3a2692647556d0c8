// Package userdb stores user accounts and the symbol catalog in SQLite.
package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
)

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned by CreateUser for a duplicate username.
var ErrUserExists = errors.New("user already exists")

// Store implements interfaces.UserStore on SQLite.
type Store struct {
	db     *sql.DB
	logger *common.Logger
}

// NewStore opens (creating if necessary) the SQLite database at path and
// ensures the schema exists.
func NewStore(path string, logger *common.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create userdb directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open userdb: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply userdb schema: %w", err)
	}

	logger.Debug().Str("path", path).Msg("User database opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email) VALUES (?, ?)`,
		username, email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new user id: %w", err)
	}

	s.logger.Info().
		Int64("user_id", id).
		Str("username", username).
		Msg("User created")

	return s.GetUserByUsername(ctx, username)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *Store) GetUserID(ctx context.Context, username string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, username,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get user id: %w", err)
	}
	return id, nil
}

func (s *Store) DeleteUser(ctx context.Context, username string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM users WHERE username = ?`, username,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpsertCatalog inserts or replaces catalog rows in a single transaction.
func (s *Store) UpsertCatalog(ctx context.Context, entries []models.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog (symbol, name, exchange, sector, industry)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			exchange = excluded.exchange,
			sector = excluded.sector,
			industry = excluded.industry`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.Symbol == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, e.Symbol, e.Name, e.Exchange, e.Sector, e.Industry); err != nil {
			return fmt.Errorf("failed to upsert catalog row %s: %w", e.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog transaction: %w", err)
	}

	s.logger.Debug().Int("count", len(entries)).Msg("Catalog rows upserted")
	return nil
}

func (s *Store) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, name, exchange, sector, industry FROM catalog ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	defer rows.Close()

	var entries []models.CatalogEntry
	for rows.Next() {
		var e models.CatalogEntry
		if err := rows.Scan(&e.Symbol, &e.Name, &e.Exchange, &e.Sector, &e.Industry); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}
	return entries, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ interfaces.UserStore = (*Store)(nil)
