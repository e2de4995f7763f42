package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
)

// sessionModel maps to the sessions table.
type sessionModel struct {
	ID        string `gorm:"primaryKey"`
	Username  string
	CreatedAt time.Time
}

func (sessionModel) TableName() string {
	return "sessions"
}

// exchangeModel maps to the exchanges table. Seq keeps insertion order stable.
type exchangeModel struct {
	Seq         uint   `gorm:"primaryKey;autoIncrement"`
	ExchangeID  string `gorm:"column:exchange_id;uniqueIndex"`
	UserID      string `gorm:"index:idx_exchanges_user"`
	Emotion     string
	Category    string
	UserInput   string
	AIResponse  string `gorm:"column:ai_response"`
	DrugMention bool
	CreatedAt   time.Time
}

func (exchangeModel) TableName() string {
	return "exchanges"
}

// PostgresStore persists sessions and exchanges through gorm.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to dsn and migrates the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&sessionModel{}, &exchangeModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, session chat.Session) error {
	record := sessionModel{ID: session.ID, Username: session.Username, CreatedAt: session.CreatedAt}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (chat.Session, error) {
	var record sessionModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return chat.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return chat.Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	return chat.Session{ID: record.ID, Username: record.Username, CreatedAt: record.CreatedAt.UTC()}, nil
}

func (s *PostgresStore) AppendExchange(ctx context.Context, exchange chat.Exchange) (chat.Exchange, error) {
	if _, err := s.GetSession(ctx, exchange.UserID); err != nil {
		return chat.Exchange{}, err
	}

	exchange.ID = uuid.NewString()
	if exchange.Timestamp.IsZero() {
		exchange.Timestamp = time.Now().UTC()
	}

	record := exchangeToModel(exchange)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return chat.Exchange{}, fmt.Errorf("failed to insert exchange: %w", err)
	}
	return exchange, nil
}

func (s *PostgresStore) RecentExchanges(ctx context.Context, userID string, limit int) ([]chat.Exchange, error) {
	exchanges, err := s.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	reverse(exchanges)
	return exchanges, nil
}

func (s *PostgresStore) History(ctx context.Context, userID string, limit int) ([]chat.Exchange, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []exchangeModel
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}

	exchanges := make([]chat.Exchange, 0, len(records))
	for _, record := range records {
		exchanges = append(exchanges, exchangeFromModel(record))
	}
	return exchanges, nil
}

func (s *PostgresStore) Insights(ctx context.Context, userID string) (chat.Insights, error) {
	var stats []struct {
		Emotion string
		Count   int
	}
	if err := s.db.WithContext(ctx).Model(&exchangeModel{}).
		Select("emotion, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("emotion").
		Scan(&stats).Error; err != nil {
		return chat.Insights{}, fmt.Errorf("failed to query emotion stats: %w", err)
	}

	distribution := make(map[string]int, len(stats))
	total := 0
	for _, stat := range stats {
		distribution[stat.Emotion] = stat.Count
		total += stat.Count
	}

	var avg float64
	if err := s.db.WithContext(ctx).Model(&exchangeModel{}).
		Select("COALESCE(AVG(LENGTH(user_input)), 0)").
		Where("user_id = ?", userID).
		Row().Scan(&avg); err != nil {
		return chat.Insights{}, fmt.Errorf("failed to query engagement: %w", err)
	}

	var flagged []exchangeModel
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND drug_mention = ?", userID, true).
		Order("seq DESC").
		Limit(recentDrugMentionWindow).
		Find(&flagged).Error; err != nil {
		return chat.Insights{}, fmt.Errorf("failed to query drug mentions: %w", err)
	}

	return buildInsights(distribution, total, avg, len(flagged)), nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func exchangeToModel(exchange chat.Exchange) exchangeModel {
	return exchangeModel{
		ExchangeID:  exchange.ID,
		UserID:      exchange.UserID,
		Emotion:     exchange.Emotion,
		Category:    exchange.Category,
		UserInput:   exchange.UserInput,
		AIResponse:  exchange.AIResponse,
		DrugMention: exchange.HasDrugMention,
		CreatedAt:   exchange.Timestamp,
	}
}

func exchangeFromModel(record exchangeModel) chat.Exchange {
	return chat.Exchange{
		ID:             record.ExchangeID,
		UserID:         record.UserID,
		UserInput:      record.UserInput,
		AIResponse:     record.AIResponse,
		Emotion:        record.Emotion,
		Category:       record.Category,
		HasDrugMention: record.DrugMention,
		Timestamp:      record.CreatedAt.UTC(),
	}
}
