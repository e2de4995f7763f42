package chat

import (
	"strings"
	"time"
)

// Exchange records one user utterance together with the companion's reply.
// Records are immutable once stored.
type Exchange struct {
	ID             string    `json:"id,omitempty"`
	UserID         string    `json:"userId,omitempty"`
	UserInput      string    `json:"user_input"`
	AIResponse     string    `json:"ai_response"`
	Emotion        string    `json:"emotion"`
	Category       string    `json:"category,omitempty"`
	HasDrugMention bool      `json:"drug_mention"`
	Timestamp      time.Time `json:"timestamp"`
}

// Complete reports whether both sides of the exchange carry non-blank text.
func (e Exchange) Complete() bool {
	return strings.TrimSpace(e.UserInput) != "" && strings.TrimSpace(e.AIResponse) != ""
}

// Insights summarizes a user's recorded exchanges.
type Insights struct {
	EmotionDistribution map[string]int `json:"emotion_distribution"`
	TotalInteractions   int            `json:"total_interactions"`
	AvgMessageLength    float64        `json:"avg_message_length"`
	RecentDrugMentions  int            `json:"recent_drug_mentions"`
	MostCommonEmotion   string         `json:"most_common_emotion"`
}

// Reply is what the companion returns for one user message.
type Reply struct {
	Response       string    `json:"response"`
	Category       string    `json:"category"`
	Emotion        string    `json:"emotion"`
	HasDrugMention bool      `json:"has_drug_mention"`
	Timestamp      time.Time `json:"timestamp"`
}
