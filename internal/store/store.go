package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	apperrors "github.com/beingshakil/keyword-planner-tool/internal/errors"
)

var (
	// ErrListNotFound is returned when no list has the requested id
	ErrListNotFound = errors.New("keyword list not found")
	// ErrListExists is returned when another list already uses the name
	ErrListExists = errors.New("keyword list name already in use")
	// ErrKeywordNotFound is returned when removing a keyword the list does not hold
	ErrKeywordNotFound = errors.New("keyword not in list")
)

// Supported database drivers, named after the database/sql driver they load
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to the saved-list database
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, apperrors.ConfigInvalid(fmt.Sprintf("unsupported database driver %q", driver))
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to connect to database", err)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// ListStore persists saved keyword lists
type ListStore struct {
	db     *sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewListStore creates a list store over db
func NewListStore(db *sqlx.DB, logger *zap.Logger) *ListStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListStore{
		db:     db,
		logger: logger.Named("store"),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS keyword_lists (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS list_keywords (
		list_id VARCHAR(36) NOT NULL,
		keyword VARCHAR(512) NOT NULL,
		volume VARCHAR(64) NOT NULL DEFAULT '',
		value VARCHAR(64) NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		PRIMARY KEY (list_id, keyword),
		FOREIGN KEY (list_id) REFERENCES keyword_lists(id) ON DELETE CASCADE
	)`,
}

// Migrate creates the tables when they are missing
func (s *ListStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.DatabaseError("failed to migrate schema", err)
		}
	}
	s.logger.Debug("schema ready", zap.String("driver", s.db.DriverName()))
	return nil
}

// Close closes the underlying database
func (s *ListStore) Close() error {
	return s.db.Close()
}

func notFound(err error) error {
	return apperrors.WithCode(apperrors.CodeNotFound, err)
}

func conflict(err error) error {
	return apperrors.WithCode(apperrors.CodeConflict, err)
}
