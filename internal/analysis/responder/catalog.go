package responder

import (
	"errors"
	"fmt"
)

// ErrInvalidCatalog 表示回复目录缺少必需的模板池。
var ErrInvalidCatalog = errors.New("invalid response catalog")

// Catalog 是只读的模板目录，初始化后不会再被修改，可在多个 goroutine 间共享。
type Catalog struct {
	pools map[Pool][]string
}

// NewCatalog 复制传入的模板池并校验每个可达池都至少有一条模板。
func NewCatalog(pools map[Pool][]string) (*Catalog, error) {
	copied := make(map[Pool][]string, len(pools))
	for key, templates := range pools {
		copied[key] = append([]string(nil), templates...)
	}

	catalog := &Catalog{pools: copied}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// DefaultCatalog 返回内置的英文模板目录。
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(defaultPools)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Validate 检查所有规则可能命中的模板池。
func (c *Catalog) Validate() error {
	for _, pool := range RequiredPools() {
		if len(c.pools[pool]) == 0 {
			return fmt.Errorf("%w: pool %q has no templates", ErrInvalidCatalog, pool)
		}
	}
	if len(c.pools[Crisis.Pool()]) != 1 {
		return fmt.Errorf("%w: crisis pool must hold exactly one template", ErrInvalidCatalog)
	}
	return nil
}

// Templates 返回某个池的模板副本。
func (c *Catalog) Templates(pool Pool) []string {
	return append([]string(nil), c.pools[pool]...)
}

func (c *Catalog) pool(key Pool) []string {
	return c.pools[key]
}

// RequiredPools 列出规则级联可能使用的全部模板池。
func RequiredPools() []Pool {
	pools := make([]Pool, 0, 20)
	for _, category := range Categories() {
		if category == ContextFollowup {
			continue
		}
		pools = append(pools, category.Pool())
	}
	return append(pools, followupPools()...)
}

const crisisTemplate = "I'm really concerned about what you just shared, and I'm glad you told me. " +
	"You deserve support right now. Please call or text 988 (Suicide & Crisis Lifeline) or your " +
	"local emergency number. If you can, reach out to someone you trust and stay with them. 💙"

var defaultPools = map[Pool][]string{
	Crisis.Pool(): {crisisTemplate},
	Recovery.Pool(): {
		"Choosing recovery takes real courage, and I'm proud of you for taking this step. 🌱 " +
			"The SAMHSA National Helpline (1-800-662-4357) can connect you with free, confidential recovery support.",
		"That's a powerful decision. Every sober day counts. If you'd like extra support, the SAMHSA " +
			"National Helpline at 1-800-662-4357 is free and confidential. What's motivating you right now? 🌱",
	},
	Craving.Pool(): {
		"Cravings can be really intense, and noticing them is an important first step. You can call the " +
			"SAMHSA National Helpline any time, 24/7, at 1-800-662-4357. Can we try a grounding exercise together?",
		"Thank you for being honest about this urge. It will pass, even if it doesn't feel that way now. " +
			"Support is available 24/7 at 1-800-662-4357. What usually helps you ride out a craving?",
	},
	SubstanceNeutral.Pool(): {
		"Thanks for bringing that up. I'm here to listen without judgment. If you ever want to talk to " +
			"someone, the SAMHSA National Helpline (1-800-662-4357) is free and confidential.",
		"I'm glad you feel comfortable talking about this. Whatever your situation, support is available " +
			"at 1-800-662-4357. How is it affecting you lately?",
	},
	Greeting.Pool(): {
		"Hello! I'm your AI companion. I'm here to listen and support you. How are you feeling today? 🪐",
		"Hi there! It's good to see you. What's on your mind today?",
	},
	Farewell.Pool(): {
		"Take care! Remember I'm here whenever you need someone to talk to. Wishing you well until we chat again!",
		"Goodbye for now. Be gentle with yourself, and come back anytime. 🌙",
	},
	Thanks.Pool(): {
		"You're very welcome! I'm glad I can be here for you. How else can I support you today?",
		"Anytime. It means a lot that you'd share this with me. Is there anything else on your mind?",
	},
	FollowupPool(TopicSad, IntentDeepen): {
		"That sounds really heavy to carry. What part of it has been weighing on you the most?",
		"I hear you. When did you first start feeling this way?",
	},
	FollowupPool(TopicSad, IntentEncourage): {
		"I'm really glad things feel a little lighter. What do you think made the difference today?",
		"That's good to hear. Noticing what lifts your mood is worth remembering. What helped the most?",
	},
	FollowupPool(TopicAnxious, IntentDeepen): {
		"Let's slow things down together. What's the thought that keeps coming back the most?",
		"That sounds like a lot to hold at once. Would a short breathing exercise help before we keep talking?",
	},
	FollowupPool(TopicAnxious, IntentEncourage): {
		"I'm glad you're feeling calmer. 🌿 What do you think helped you settle?",
		"That's real progress. Take a moment to notice how your body feels now compared to earlier.",
	},
	FollowupPool(TopicAngry, IntentDeepen): {
		"It makes sense that this is still getting to you. What part of it feels most unfair?",
		"Those feelings are valid. Would it help to put into words what you wish had happened instead?",
	},
	FollowupPool(TopicAngry, IntentEncourage): {
		"I'm glad the heat has come down a bit. What helped you cool off?",
		"It's good that you found some space from it. Looking back, what would you want to remember next time?",
	},
	EmotionAnxious.Pool(): {
		"It sounds like you're feeling anxious. Let's take a deep breath together and talk through it.",
		"Anxiety can be overwhelming. I'm here to help you work through these thoughts.",
		"Let's break this down together. What specific concerns are on your mind right now?",
	},
	EmotionSad.Pool(): {
		"I'm here for you during this difficult time. Would you like to talk about what's bothering you?",
		"It's okay to feel sad sometimes. I'm listening if you want to share what's on your mind.",
		"I can sense you're feeling down. Remember that difficult moments don't last forever. 💙",
	},
	EmotionAngry.Pool(): {
		"I can see you're feeling frustrated. Would it help to talk about what's bothering you?",
		"Anger is a natural emotion. Let's work through this together. What's triggering these feelings?",
		"I'm here to help you process these strong emotions. What's causing you to feel this way?",
	},
	EmotionHappy.Pool(): {
		"It's wonderful to see you feeling happy! What's bringing you joy today? ✨",
		"Your positive energy is contagious! Tell me more about what's making you smile.",
		"Happiness looks good on you! Want to share what's going well?",
	},
	HelpSeeking.Pool(): {
		"I hear that you're going through a challenging time. Remember that it's okay to ask for help when " +
			"you need it. Would you like to talk more about what's making things difficult?",
		"You don't have to figure this out by yourself. Let's take it one step at a time. What feels most " +
			"pressing right now?",
	},
	NeutralFallback.Pool(): {
		"Thanks for checking in! How are you feeling today?",
		"I'm here to listen. What would you like to talk about?",
		"How has your day been going? I'm interested in hearing about it.",
	},
}
