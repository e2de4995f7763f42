package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownDriver   = errors.New("unknown storage driver")
)

// recentDrugMentionWindow bounds how many flagged exchanges count as "recent".
const recentDrugMentionWindow = 5

// Store persists sessions and the exchanges recorded for them.
type Store interface {
	CreateSession(ctx context.Context, session chat.Session) error
	GetSession(ctx context.Context, id string) (chat.Session, error)
	// AppendExchange stores the exchange and returns it with ID and Timestamp filled in.
	AppendExchange(ctx context.Context, exchange chat.Exchange) (chat.Exchange, error)
	// RecentExchanges returns the last limit exchanges, oldest first.
	RecentExchanges(ctx context.Context, userID string, limit int) ([]chat.Exchange, error)
	// History returns the last limit exchanges, newest first.
	History(ctx context.Context, userID string, limit int) ([]chat.Exchange, error)
	Insights(ctx context.Context, userID string) (chat.Insights, error)
	Close() error
}

// Config selects and configures a Store implementation.
type Config struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
}

// Open builds the Store named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		s, err := NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func buildInsights(distribution map[string]int, total int, avgLength float64, recentDrug int) chat.Insights {
	if distribution == nil {
		distribution = make(map[string]int)
	}
	return chat.Insights{
		EmotionDistribution: distribution,
		TotalInteractions:   total,
		AvgMessageLength:    math.Round(avgLength*10) / 10,
		RecentDrugMentions:  recentDrug,
		MostCommonEmotion:   mostCommonEmotion(distribution),
	}
}

// mostCommonEmotion picks the highest count; ties resolve alphabetically.
func mostCommonEmotion(distribution map[string]int) string {
	if len(distribution) == 0 {
		return "Neutral"
	}
	labels := make([]string, 0, len(distribution))
	for label := range distribution {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best := labels[0]
	for _, label := range labels[1:] {
		if distribution[label] > distribution[best] {
			best = label
		}
	}
	return best
}

func reverse(exchanges []chat.Exchange) {
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}
}
