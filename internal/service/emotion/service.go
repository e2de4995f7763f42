package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/zhouzirui/saturn-companion/backend/internal/analysis/emotion"
)

// Config 控制文本情绪推断服务的行为。
type Config struct {
	Enabled bool
}

// Inference 表示一次文本情绪推断的结果。
type Inference struct {
	Label      analysis.Label
	Confidence float32
	Reason     string

	fallback bool
}

// Fallback 表示推断结果是否来自兜底逻辑。
func (i Inference) Fallback() bool {
	return i.fallback
}

const fallbackReason = "fallback"

// Service 使用大模型从用户文字中推断情绪标签，失败时回退为 neutral。
type Service struct {
	enabled    bool
	classifier compose.Runnable[map[string]any, *schema.Message]
}

// NewService 创建情绪推断服务。chatModel 为 nil 时服务处于禁用状态。
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	svc := &Service{
		enabled: cfg.Enabled && chatModel != nil,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(emotionSystemPrompt),
		schema.UserMessage(emotionUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile emotion classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled 返回情绪推断服务是否启用。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Infer 推断 text 的情绪标签。禁用、调用失败或输出无法解析时返回 neutral 兜底结果。
func (s *Service) Infer(ctx context.Context, text string) Inference {
	text = strings.TrimSpace(text)
	if !s.Enabled() || text == "" {
		return fallbackInference()
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{"user_message": text})
	if err != nil {
		log.Printf("[emotion] classifier invoke failed, use fallback: %v", err)
		return fallbackInference()
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return fallbackInference()
	}

	result, err := parseClassifierOutput(msg.Content)
	if err != nil {
		log.Printf("[emotion] classifier output parse failed, use fallback: %v", err)
		return fallbackInference()
	}

	label, ok := analysis.Parse(result.Emotion)
	if !ok {
		log.Printf("[emotion] classifier returned unknown label %q, use fallback", result.Emotion)
		return fallbackInference()
	}

	confidence := result.Confidence
	if confidence <= 0 {
		confidence = 0.6
	}
	if confidence > 1 {
		confidence = 1
	}

	return Inference{
		Label:      label,
		Confidence: confidence,
		Reason:     strings.TrimSpace(result.Reason),
	}
}

func fallbackInference() Inference {
	return Inference{
		Label:      analysis.Neutral,
		Confidence: 0.3,
		Reason:     fallbackReason,
		fallback:   true,
	}
}

// parseClassifierOutput 解析大模型返回的 JSON，容忍前后多余文本。
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

type classifierPayload struct {
	Emotion    string  `json:"emotion"`
	Confidence float32 `json:"confidence"`
	Reason     string  `json:"reason"`
}

const emotionSystemPrompt = "You label the emotional state of a person writing to a wellness companion. " +
	"Read the message and answer with a single JSON object and nothing else: " +
	"{{\"emotion\": one of neutral/happy/sad/angry/anxious, \"confidence\": number between 0 and 1, \"reason\": short phrase}}."

const emotionUserPrompt = "Message:\n{user_message}"
