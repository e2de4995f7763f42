package store

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
)

// MemoryStore keeps everything in process memory, suitable for local runs and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]chat.Session
	exchanges map[string][]chat.Exchange
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string]chat.Session),
		exchanges: make(map[string][]chat.Exchange),
	}
}

func (s *MemoryStore) CreateSession(_ context.Context, session chat.Session) error {
	s.mu.Lock()
	s.sessions[session.ID] = session
	if _, ok := s.exchanges[session.ID]; !ok {
		s.exchanges[session.ID] = make([]chat.Exchange, 0, 16)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *MemoryStore) AppendExchange(_ context.Context, exchange chat.Exchange) (chat.Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[exchange.UserID]; !ok {
		return chat.Exchange{}, ErrSessionNotFound
	}

	exchange.ID = uuid.NewString()
	if exchange.Timestamp.IsZero() {
		exchange.Timestamp = time.Now().UTC()
	}
	s.exchanges[exchange.UserID] = append(s.exchanges[exchange.UserID], exchange)
	return exchange, nil
}

func (s *MemoryStore) RecentExchanges(_ context.Context, userID string, limit int) ([]chat.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exchanges := s.exchanges[userID]
	start := 0
	if limit > 0 && len(exchanges) > limit {
		start = len(exchanges) - limit
	}
	copied := make([]chat.Exchange, len(exchanges)-start)
	copy(copied, exchanges[start:])
	return copied, nil
}

func (s *MemoryStore) History(ctx context.Context, userID string, limit int) ([]chat.Exchange, error) {
	recent, err := s.RecentExchanges(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	reverse(recent)
	return recent, nil
}

func (s *MemoryStore) Insights(_ context.Context, userID string) (chat.Insights, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exchanges := s.exchanges[userID]
	distribution := make(map[string]int)
	totalLength := 0
	for _, exchange := range exchanges {
		distribution[exchange.Emotion]++
		totalLength += utf8.RuneCountInString(exchange.UserInput)
	}

	recentDrug := 0
	for i := len(exchanges) - 1; i >= 0 && recentDrug < recentDrugMentionWindow; i-- {
		if exchanges[i].HasDrugMention {
			recentDrug++
		}
	}

	avg := 0.0
	if len(exchanges) > 0 {
		avg = float64(totalLength) / float64(len(exchanges))
	}
	return buildInsights(distribution, len(exchanges), avg, recentDrug), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
