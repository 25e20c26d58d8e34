package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"chatbot/internal/domain"
)

// SQLiteStore keeps the configuration document in a single-row table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// writes are serialized by SQLite anyway
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chatbot_config (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			document   TEXT    NOT NULL,
			updated_at INTEGER NOT NULL
		)`)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) (*domain.Configuration, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM chatbot_config WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: %w", domain.ErrConfigNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying config: %w", err)
	}
	return decode([]byte(document))
}

func (s *SQLiteStore) Save(ctx context.Context, cfg *domain.Configuration) error {
	data, err := encode(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chatbot_config (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("storing config: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
