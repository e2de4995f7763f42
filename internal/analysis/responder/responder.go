package responder

import (
	"github.com/zhouzirui/saturn-companion/backend/internal/analysis/emotion"
	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
)

// Reply 是一次选择的结果。
type Reply struct {
	Category Category `json:"category"`
	Pool     Pool     `json:"pool"`
	Text     string   `json:"text"`
}

// turn 保存单次调用的已规范化输入。
type turn struct {
	text    string
	label   emotion.Label
	history []chat.Exchange
}

// rule 是级联中的一条规则，第一个命中的规则决定回复。
type rule struct {
	category Category
	match    func(t *turn) (Pool, bool)
}

// Responder 按固定优先级依次评估安全过滤、话题规则、上下文规则和情绪/兜底规则。
// Responder 不持有任何每次调用的可变状态，可被多个请求并发使用。
type Responder struct {
	catalog *Catalog
	picker  Picker
	rules   []rule
}

// New 创建回复选择器。catalog 为 nil 时使用内置目录，picker 为 nil 时使用全局随机源。
func New(catalog *Catalog, picker Picker) *Responder {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if picker == nil {
		picker = globalPicker{}
	}
	return &Responder{
		catalog: catalog,
		picker:  picker,
		rules:   defaultRules(),
	}
}

// GenerateResponse 返回一条回复文本。userID 仅作为不透明标识传入，选择逻辑不依赖它。
func (r *Responder) GenerateResponse(userInput, _ string, detectedEmotion string, history []chat.Exchange) string {
	return r.Select(userInput, detectedEmotion, history).Text
}

// Select 运行规则级联并返回命中的类别、模板池和模板文本。
func (r *Responder) Select(userInput, detectedEmotion string, history []chat.Exchange) Reply {
	category, pool := r.match(userInput, detectedEmotion, history)
	return Reply{Category: category, Pool: pool, Text: r.draw(category, pool)}
}

// Classify 只返回命中的类别，不抽取模板。
func (r *Responder) Classify(userInput, detectedEmotion string, history []chat.Exchange) Category {
	category, _ := r.match(userInput, detectedEmotion, history)
	return category
}

func (r *Responder) match(userInput, detectedEmotion string, history []chat.Exchange) (Category, Pool) {
	t := &turn{
		text:    normalize(userInput),
		label:   emotion.Normalize(detectedEmotion),
		history: history,
	}
	for _, rl := range r.rules {
		if pool, ok := rl.match(t); ok {
			return rl.category, pool
		}
	}
	return NeutralFallback, NeutralFallback.Pool()
}

func (r *Responder) draw(category Category, pool Pool) string {
	templates := r.catalog.pool(pool)
	if len(templates) == 0 {
		templates = r.catalog.pool(NeutralFallback.Pool())
	}
	if category == Crisis || len(templates) == 1 {
		return templates[0]
	}
	return templates[r.picker.IntN(len(templates))]
}

func defaultRules() []rule {
	return []rule{
		keywordRule(Crisis, crisisKeywords),
		{category: Recovery, match: func(t *turn) (Pool, bool) {
			return Recovery.Pool(), containsAny(t.text, recoveryIntentKeywords) && containsAny(t.text, substanceKeywords)
		}},
		{category: Craving, match: func(t *turn) (Pool, bool) {
			return Craving.Pool(), containsAny(t.text, useIntentKeywords) && containsAny(t.text, substanceKeywords)
		}},
		keywordRule(SubstanceNeutral, substanceKeywords),
		keywordRule(Greeting, greetingKeywords),
		keywordRule(Farewell, farewellKeywords),
		keywordRule(Thanks, thanksKeywords),
		{category: ContextFollowup, match: matchFollowup},
		keywordRule(EmotionAnxious, anxiousKeywords),
		keywordRule(EmotionSad, sadKeywords),
		keywordRule(EmotionAngry, angryKeywords),
		keywordRule(EmotionHappy, happyKeywords),
		keywordRule(HelpSeeking, helpKeywords),
		labelRule(EmotionAnxious, emotion.Anxious),
		labelRule(EmotionSad, emotion.Sad),
		labelRule(EmotionAngry, emotion.Angry),
		labelRule(EmotionHappy, emotion.Happy),
		{category: NeutralFallback, match: func(*turn) (Pool, bool) {
			return NeutralFallback.Pool(), true
		}},
	}
}

func keywordRule(category Category, words []string) rule {
	return rule{category: category, match: func(t *turn) (Pool, bool) {
		return category.Pool(), containsAny(t.text, words)
	}}
}

func labelRule(category Category, label emotion.Label) rule {
	return rule{category: category, match: func(t *turn) (Pool, bool) {
		return category.Pool(), t.label == label
	}}
}

// matchFollowup 根据上一轮的情绪话题解读当前话语。
func matchFollowup(t *turn) (Pool, bool) {
	if len(t.history) == 0 {
		return "", false
	}
	last := t.history[len(t.history)-1]
	if !last.Complete() {
		return "", false
	}

	topic, ok := previousTopic(last)
	if !ok {
		return "", false
	}

	switch {
	case containsAny(t.text, improvementKeywords):
		return FollowupPool(topic, IntentEncourage), true
	case containsAny(t.text, affirmativeKeywords):
		return FollowupPool(topic, IntentDeepen), true
	default:
		return "", false
	}
}

func previousTopic(last chat.Exchange) (Topic, bool) {
	previous := normalize(last.UserInput + " " + last.AIResponse)
	switch {
	case containsAny(previous, anxiousKeywords):
		return TopicAnxious, true
	case containsAny(previous, sadKeywords):
		return TopicSad, true
	case containsAny(previous, angryKeywords):
		return TopicAngry, true
	}

	switch emotion.Normalize(last.Emotion) {
	case emotion.Anxious:
		return TopicAnxious, true
	case emotion.Sad:
		return TopicSad, true
	case emotion.Angry:
		return TopicAngry, true
	}
	return "", false
}
