package responder

// Category 表示回复选择器可能产出的回复类别。
type Category string

const (
	Crisis           Category = "crisis"
	Recovery         Category = "recovery"
	Craving          Category = "craving"
	SubstanceNeutral Category = "substance_neutral"
	Greeting         Category = "greeting"
	Farewell         Category = "farewell"
	Thanks           Category = "thanks"
	ContextFollowup  Category = "context_followup"
	EmotionHappy     Category = "emotion_happy"
	EmotionSad       Category = "emotion_sad"
	EmotionAngry     Category = "emotion_angry"
	EmotionAnxious   Category = "emotion_anxious"
	HelpSeeking      Category = "help_seeking"
	NeutralFallback  Category = "neutral_fallback"
)

// Categories 按优先级顺序列出全部类别。
func Categories() []Category {
	return []Category{
		Crisis,
		Recovery,
		Craving,
		SubstanceNeutral,
		Greeting,
		Farewell,
		Thanks,
		ContextFollowup,
		EmotionAnxious,
		EmotionSad,
		EmotionAngry,
		EmotionHappy,
		HelpSeeking,
		NeutralFallback,
	}
}

// Pool 是模板池在目录中的键。大多数类别只有一个与类别同名的池，
// context_followup 会按话题和回复意图细分。
type Pool string

// Pool 返回类别对应的默认模板池。
func (c Category) Pool() Pool {
	return Pool(c)
}

// Topic 是上下文规则从上一轮对话中识别出的情绪话题。
type Topic string

const (
	TopicSad     Topic = "sad"
	TopicAnxious Topic = "anxious"
	TopicAngry   Topic = "angry"
)

// Intent 是当前话语相对上一轮话题的回复意图。
type Intent string

const (
	IntentDeepen    Intent = "deepen"
	IntentEncourage Intent = "encourage"
)

// FollowupPool 返回上下文跟进的细分模板池，如 "context_followup/sad/deepen"。
func FollowupPool(topic Topic, intent Intent) Pool {
	return Pool(string(ContextFollowup) + "/" + string(topic) + "/" + string(intent))
}

func followupPools() []Pool {
	pools := make([]Pool, 0, 6)
	for _, topic := range []Topic{TopicSad, TopicAnxious, TopicAngry} {
		for _, intent := range []Intent{IntentDeepen, IntentEncourage} {
			pools = append(pools, FollowupPool(topic, intent))
		}
	}
	return pools
}
