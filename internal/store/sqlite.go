package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
)

// SQLiteStore persists sessions and exchanges in a local sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.configure(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) configure(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exchanges (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			exchange_id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL REFERENCES sessions(id),
			emotion TEXT NOT NULL DEFAULT 'Neutral',
			category TEXT NOT NULL DEFAULT '',
			user_input TEXT NOT NULL,
			ai_response TEXT NOT NULL,
			drug_mention INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exchanges_user ON exchanges(user_id, seq)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) CreateSession(ctx context.Context, session chat.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, username, created_at) VALUES (?, ?, ?)`,
		session.ID, session.Username, session.CreatedAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (chat.Session, error) {
	var (
		session   chat.Session
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.Username, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return chat.Session{}, fmt.Errorf("query session: %w", err)
	}
	session.CreatedAt = time.Unix(0, createdAt).UTC()
	return session, nil
}

func (s *SQLiteStore) AppendExchange(ctx context.Context, exchange chat.Exchange) (chat.Exchange, error) {
	if _, err := s.GetSession(ctx, exchange.UserID); err != nil {
		return chat.Exchange{}, err
	}

	exchange.ID = uuid.NewString()
	if exchange.Timestamp.IsZero() {
		exchange.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (exchange_id, user_id, emotion, category, user_input, ai_response, drug_mention, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		exchange.ID, exchange.UserID, exchange.Emotion, exchange.Category,
		exchange.UserInput, exchange.AIResponse, exchange.HasDrugMention, exchange.Timestamp.UnixNano())
	if err != nil {
		return chat.Exchange{}, fmt.Errorf("insert exchange: %w", err)
	}
	return exchange, nil
}

func (s *SQLiteStore) RecentExchanges(ctx context.Context, userID string, limit int) ([]chat.Exchange, error) {
	exchanges, err := s.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	reverse(exchanges)
	return exchanges, nil
}

func (s *SQLiteStore) History(ctx context.Context, userID string, limit int) ([]chat.Exchange, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT exchange_id, user_id, emotion, category, user_input, ai_response, drug_mention, created_at
		FROM exchanges
		WHERE user_id = ?
		ORDER BY seq DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := make([]chat.Exchange, 0)
	for rows.Next() {
		var (
			exchange  chat.Exchange
			createdAt int64
		)
		if err := rows.Scan(&exchange.ID, &exchange.UserID, &exchange.Emotion, &exchange.Category,
			&exchange.UserInput, &exchange.AIResponse, &exchange.HasDrugMention, &createdAt); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		exchange.Timestamp = time.Unix(0, createdAt).UTC()
		exchanges = append(exchanges, exchange)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchanges: %w", err)
	}
	return exchanges, nil
}

func (s *SQLiteStore) Insights(ctx context.Context, userID string) (chat.Insights, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT emotion, COUNT(*) FROM exchanges WHERE user_id = ? GROUP BY emotion`, userID)
	if err != nil {
		return chat.Insights{}, fmt.Errorf("query emotion stats: %w", err)
	}
	defer rows.Close()

	distribution := make(map[string]int)
	for rows.Next() {
		var (
			label string
			count int
		)
		if err := rows.Scan(&label, &count); err != nil {
			return chat.Insights{}, fmt.Errorf("scan emotion stats: %w", err)
		}
		distribution[label] = count
	}
	if err := rows.Err(); err != nil {
		return chat.Insights{}, fmt.Errorf("iterate emotion stats: %w", err)
	}

	var (
		total int
		avg   float64
	)
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(LENGTH(user_input)), 0) FROM exchanges WHERE user_id = ?`, userID,
	).Scan(&total, &avg); err != nil {
		return chat.Insights{}, fmt.Errorf("query engagement: %w", err)
	}

	var recentDrug int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT seq FROM exchanges
			WHERE user_id = ? AND drug_mention = 1
			ORDER BY seq DESC
			LIMIT ?
		)`, userID, recentDrugMentionWindow,
	).Scan(&recentDrug); err != nil {
		return chat.Insights{}, fmt.Errorf("query drug mentions: %w", err)
	}

	return buildInsights(distribution, total, avg, recentDrug), nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
