package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finances/internal/log"
)

// sqlStore implements KeyValueStore on the kv_store table. The two dialects
// only differ in placeholder syntax.
type sqlStore struct {
	db       *sql.DB
	getQuery string
	setQuery string
	logger   *log.Logger
}

func newSQLStore(db *sql.DB, dialect, getQuery, setQuery string, logger *log.Logger) sqlStore {
	if logger == nil {
		logger = log.Discard()
	}
	return sqlStore{
		db:       db,
		getQuery: getQuery,
		setQuery: setQuery,
		logger:   logger.WithComponent(log.ComponentStorage).With(log.FieldDialect, dialect),
	}
}

func (s *sqlStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *sqlStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.setQuery, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Value stored",
		log.FieldStorageKey, key,
		log.FieldSizeBytes, len(value))
	return nil
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
