package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	analysis "github.com/zhouzirui/saturn-companion/backend/internal/analysis/emotion"
	"github.com/zhouzirui/saturn-companion/backend/internal/analysis/responder"
	"github.com/zhouzirui/saturn-companion/backend/internal/metrics"
	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
	emotionservice "github.com/zhouzirui/saturn-companion/backend/internal/service/emotion"
	"github.com/zhouzirui/saturn-companion/backend/internal/store"
)

var (
	ErrUserRequired    = errors.New("user id is required")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrSessionNotFound = store.ErrSessionNotFound
)

const (
	defaultUsername = "friend"

	// FallbackCategory marks replies produced when the responder failed.
	FallbackCategory = "fallback_error"
	clarification    = "I'm here to listen. Could you tell me more about what you're experiencing?"
)

// ReplySelector picks a reply for one utterance.
type ReplySelector interface {
	Select(userInput, detectedEmotion string, history []chat.Exchange) responder.Reply
}

// Labeller infers an emotion label from message text.
type Labeller interface {
	Infer(ctx context.Context, text string) emotionservice.Inference
}

// Config tunes how much history the service reads.
type Config struct {
	HistoryLimit int
	PageLimit    int
}

// Service orchestrates a conversation turn: history lookup, reply selection and persistence.
type Service struct {
	store        store.Store
	responder    ReplySelector
	labeller     Labeller
	metrics      *metrics.Recorder
	historyLimit int
	pageLimit    int
	now          func() time.Time
}

// NewService wires the chat service. labeller and rec may be nil.
func NewService(st store.Store, selector ReplySelector, labeller Labeller, rec *metrics.Recorder, cfg Config) *Service {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 10
	}
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = 50
	}
	if selector == nil {
		selector = responder.New(nil, nil)
	}

	return &Service{
		store:        st,
		responder:    selector,
		labeller:     labeller,
		metrics:      rec,
		historyLimit: historyLimit,
		pageLimit:    pageLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession provisions an anonymous session. Its ID is the user id for later calls.
func (s *Service) CreateSession(ctx context.Context, username string) (chat.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = defaultUsername
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return chat.Session{}, fmt.Errorf("create session: %w", err)
	}

	s.metrics.ObserveSession()
	log.Printf("[chat] session created id=%s", session.ID)
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(ctx context.Context, sessionID string) (chat.Session, error) {
	if sessionID == "" {
		return chat.Session{}, ErrUserRequired
	}
	return s.store.GetSession(ctx, sessionID)
}

// Chat answers one user message and records the exchange.
func (s *Service) Chat(ctx context.Context, userID, message, emotion string) (chat.Reply, error) {
	if userID == "" {
		return chat.Reply{}, ErrUserRequired
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return chat.Reply{}, ErrEmptyMessage
	}
	if _, err := s.store.GetSession(ctx, userID); err != nil {
		return chat.Reply{}, err
	}

	label := s.resolveEmotion(ctx, message, emotion)

	recent, err := s.store.RecentExchanges(ctx, userID, s.historyLimit)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("load history: %w", err)
	}
	history := completeExchanges(recent)

	selected, ok := s.selectReply(message, label, history)
	text, category := selected.Text, string(selected.Category)
	if !ok {
		text, category = clarification, FallbackCategory
		s.metrics.ObserveResponderError()
	}

	drug := responder.MentionsSubstance(message)
	if drug {
		s.metrics.ObserveDrugMention()
	}

	stored, err := s.store.AppendExchange(ctx, chat.Exchange{
		UserID:         userID,
		UserInput:      message,
		AIResponse:     text,
		Emotion:        label,
		Category:       category,
		HasDrugMention: drug,
		Timestamp:      s.now(),
	})
	if err != nil {
		return chat.Reply{}, fmt.Errorf("save exchange: %w", err)
	}

	s.metrics.ObserveReply(category)
	return chat.Reply{
		Response:       stored.AIResponse,
		Category:       stored.Category,
		Emotion:        stored.Emotion,
		HasDrugMention: stored.HasDrugMention,
		Timestamp:      stored.Timestamp,
	}, nil
}

// History returns the latest exchanges for userID, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]chat.Exchange, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if _, err := s.store.GetSession(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.History(ctx, userID, s.pageLimit)
}

// Insights summarizes everything recorded for userID.
func (s *Service) Insights(ctx context.Context, userID string) (chat.Insights, error) {
	if userID == "" {
		return chat.Insights{}, ErrUserRequired
	}
	if _, err := s.store.GetSession(ctx, userID); err != nil {
		return chat.Insights{}, err
	}
	return s.store.Insights(ctx, userID)
}

// resolveEmotion returns the display label stored with the exchange.
func (s *Service) resolveEmotion(ctx context.Context, message, emotion string) string {
	if strings.TrimSpace(emotion) != "" {
		return analysis.Normalize(emotion).Display()
	}
	if s.labeller == nil {
		return analysis.Neutral.Display()
	}

	inference := s.labeller.Infer(ctx, message)
	if inference.Fallback() {
		s.metrics.ObserveLabellerFallback()
	}
	return inference.Label.Display()
}

func (s *Service) selectReply(message, label string, history []chat.Exchange) (reply responder.Reply, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[chat] responder panic: %v", r)
			ok = false
		}
	}()

	reply = s.responder.Select(message, label, history)
	if strings.TrimSpace(reply.Text) == "" {
		log.Printf("[chat] responder returned empty text for category=%s", reply.Category)
		return reply, false
	}
	return reply, true
}

func completeExchanges(exchanges []chat.Exchange) []chat.Exchange {
	filtered := make([]chat.Exchange, 0, len(exchanges))
	for _, exchange := range exchanges {
		if !exchange.Complete() {
			continue
		}
		filtered = append(filtered, exchange)
	}
	return filtered
}
