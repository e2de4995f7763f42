package responder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/saturn-companion/backend/internal/model/chat"
)

func exchange(user, ai, emotion string) chat.Exchange {
	return chat.Exchange{UserInput: user, AIResponse: ai, Emotion: emotion, Timestamp: time.Now().UTC()}
}

func TestSelectScenarios(t *testing.T) {
	r := New(nil, NewSeededPicker(7))

	sadHistory := []chat.Exchange{exchange("today was rough", "I'm here for you. Tell me more.", "sad")}

	cases := []struct {
		name     string
		input    string
		emotion  string
		history  []chat.Exchange
		category Category
		pool     Pool
	}{
		{name: "crisis", input: "I want to end it all", category: Crisis, pool: Crisis.Pool()},
		{name: "recovery", input: "I decided to quit drinking", category: Recovery, pool: Recovery.Pool()},
		{name: "craving", input: "I miss using weed", category: Craving, pool: Craving.Pool()},
		{name: "greeting", input: "hello there", category: Greeting, pool: Greeting.Pool()},
		{name: "sad followup", input: "yeah", history: sadHistory, category: ContextFollowup, pool: FollowupPool(TopicSad, IntentDeepen)},
		{name: "anxious keywords", input: "I feel so anxious about the launch", category: EmotionAnxious, pool: EmotionAnxious.Pool()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply := r.Select(tc.input, tc.emotion, tc.history)
			assert.Equal(t, tc.category, reply.Category)
			assert.Equal(t, tc.pool, reply.Pool)
			assert.Contains(t, r.catalog.Templates(tc.pool), reply.Text)
		})
	}
}

func TestCrisisBeatsEverything(t *testing.T) {
	r := New(nil, NewSeededPicker(1))
	history := []chat.Exchange{exchange("I feel sad", "It's okay to feel sad sometimes.", "sad")}

	inputs := []string{
		"hi, I want to kill myself",
		"hello, I keep thinking about suicide",
		"yeah I still want to die",
		"thanks but I want to quit drinking and end my life",
	}
	for _, input := range inputs {
		for _, label := range []string{"", "happy", "Sadness"} {
			reply := r.Select(input, label, history)
			require.Equal(t, Crisis, reply.Category, input)
			require.Equal(t, crisisTemplate, reply.Text)
		}
	}
}

func TestCrisisTemplateIsNeverRandomized(t *testing.T) {
	r := New(nil, pickerFunc(func(int) int {
		t.Fatal("crisis reply must not draw from the picker")
		return 0
	}))
	assert.Equal(t, crisisTemplate, r.GenerateResponse("I want to end it all", "user-1", "", nil))
}

func TestSubstanceTieBreak(t *testing.T) {
	r := New(nil, NewSeededPicker(3))

	assert.Equal(t, Recovery, r.Classify("I want to quit alcohol", "", nil))
	assert.Equal(t, Recovery, r.Classify("I've been sober from drugs for a week and I'm tempted", "", nil))
	assert.Equal(t, Craving, r.Classify("I really need a drink", "", nil))
	assert.Equal(t, SubstanceNeutral, r.Classify("my friend offered me cocaine at the party", "", nil))
}

func TestSubstanceBeatsGreeting(t *testing.T) {
	r := New(nil, NewSeededPicker(3))
	assert.Equal(t, Craving, r.Classify("hey, I want some beer", "", nil))
	assert.Equal(t, SubstanceNeutral, r.Classify("hello, let's talk about alcohol", "", nil))
}

func TestGreetingKeywordsRespectWordStart(t *testing.T) {
	r := New(nil, NewSeededPicker(3))
	assert.Equal(t, Greeting, r.Classify("hey", "", nil))
	assert.Equal(t, Greeting, r.Classify("hi", "", nil))
	assert.Equal(t, Greeting, r.Classify("Hi.", "", nil))
	assert.Equal(t, Greeting, r.Classify("hi?", "", nil))
	assert.Equal(t, Greeting, r.Classify("Hi! how are you", "", nil))
	assert.NotEqual(t, Greeting, r.Classify("they said this was nothing", "", nil))
	assert.NotEqual(t, Greeting, r.Classify("this is my history homework", "", nil))
}

func TestNormalizeFoldsQuotesAndPunctuation(t *testing.T) {
	r := New(nil, NewSeededPicker(3))
	assert.Equal(t, HelpSeeking, r.Classify("I don\u2019t know what to do", "", nil))
	assert.Equal(t, Greeting, r.Classify("what\u2019s up", "", nil))
	assert.Equal(t, SubstanceNeutral, r.Classify("meth, again", "", nil))
	assert.Equal(t, EmotionAngry, r.Classify("I'm so mad.", "", nil))
	assert.Equal(t, Crisis, r.Classify("I want to hurt myself (again)", "", nil))
}

func TestCategoryIsDeterministic(t *testing.T) {
	r := New(nil, nil)
	history := []chat.Exchange{exchange("I'm so worried about tomorrow", "Let's break this down together.", "fear")}

	inputs := []string{"yes, still", "the weather is cloudy today", "I got the job, I'm so happy", "see you"}
	for _, input := range inputs {
		first := r.Select(input, "neutral", history).Category
		for i := 0; i < 20; i++ {
			require.Equal(t, first, r.Select(input, "neutral", history).Category, input)
		}
	}
}

func TestEveryPoolIsReachable(t *testing.T) {
	r := New(nil, NewSeededPicker(11))

	sad := []chat.Exchange{exchange("today was rough", "I'm here for you. Tell me more.", "sad")}
	anxious := []chat.Exchange{exchange("I'm so worried about tomorrow", "Let's take it slow.", "neutral")}
	angry := []chat.Exchange{exchange("my boss makes me furious", "Anger is a natural emotion.", "")}

	cases := []struct {
		input   string
		emotion string
		history []chat.Exchange
		pool    Pool
	}{
		{input: "I want to end it all", pool: Crisis.Pool()},
		{input: "I decided to quit drinking", pool: Recovery.Pool()},
		{input: "I miss using weed", pool: Craving.Pool()},
		{input: "my friend offered me cocaine at the party", pool: SubstanceNeutral.Pool()},
		{input: "hello there", pool: Greeting.Pool()},
		{input: "ok goodbye for now", pool: Farewell.Pool()},
		{input: "thank you so much", pool: Thanks.Pool()},
		{input: "yeah", history: sad, pool: FollowupPool(TopicSad, IntentDeepen)},
		{input: "I feel a bit better now", history: sad, pool: FollowupPool(TopicSad, IntentEncourage)},
		{input: "yes, still", history: anxious, pool: FollowupPool(TopicAnxious, IntentDeepen)},
		{input: "the breathing helped", history: anxious, pool: FollowupPool(TopicAnxious, IntentEncourage)},
		{input: "really", history: angry, pool: FollowupPool(TopicAngry, IntentDeepen)},
		{input: "I'm calmer now", history: angry, pool: FollowupPool(TopicAngry, IntentEncourage)},
		{input: "I feel so anxious about the launch", pool: EmotionAnxious.Pool()},
		{input: "I've been so lonely lately", pool: EmotionSad.Pool()},
		{input: "my roommate never cleans up, I'm furious", pool: EmotionAngry.Pool()},
		{input: "I got the job, I'm so happy", pool: EmotionHappy.Pool()},
		{input: "I'm struggling with school", pool: HelpSeeking.Pool()},
		{input: "the weather is cloudy today", pool: NeutralFallback.Pool()},
	}

	seen := make(map[Pool]bool)
	for _, tc := range cases {
		reply := r.Select(tc.input, tc.emotion, tc.history)
		require.Equal(t, tc.pool, reply.Pool, tc.input)
		seen[reply.Pool] = true
	}

	for _, pool := range RequiredPools() {
		assert.True(t, seen[pool], "pool %s not reached", pool)
	}
}

func TestDetectedEmotionLabelSelectsEmotionPool(t *testing.T) {
	r := New(nil, NewSeededPicker(5))
	neutralInput := "the weather is cloudy today"

	assert.Equal(t, EmotionSad, r.Classify(neutralInput, "Sadness", nil))
	assert.Equal(t, EmotionAnxious, r.Classify(neutralInput, "fear", nil))
	assert.Equal(t, EmotionAngry, r.Classify(neutralInput, "ANGRY", nil))
	assert.Equal(t, EmotionHappy, r.Classify(neutralInput, "happy", nil))
	assert.Equal(t, NeutralFallback, r.Classify(neutralInput, "bewildered", nil))
	assert.Equal(t, NeutralFallback, r.Classify(neutralInput, "", nil))
}

func TestKeywordsBeatDetectedEmotion(t *testing.T) {
	r := New(nil, NewSeededPicker(5))
	assert.Equal(t, EmotionHappy, r.Classify("I got the job, I'm so happy", "sad", nil))
	assert.Equal(t, HelpSeeking, r.Classify("I'm struggling with school", "happy", nil))
}

func TestContextRuleNeedsHistory(t *testing.T) {
	r := New(nil, NewSeededPicker(9))

	assert.Equal(t, NeutralFallback, r.Classify("yeah", "", nil))
	assert.Equal(t, NeutralFallback, r.Classify("yeah", "", []chat.Exchange{}))

	incomplete := []chat.Exchange{{UserInput: "", AIResponse: "It's okay to feel sad sometimes.", Emotion: "sad"}}
	assert.Equal(t, NeutralFallback, r.Classify("yeah", "", incomplete))

	missingReply := []chat.Exchange{{UserInput: "I feel sad", Emotion: "sad"}}
	assert.Equal(t, NeutralFallback, r.Classify("yeah", "", missingReply))
}

func TestContextRuleOnlyReadsLastExchange(t *testing.T) {
	r := New(nil, NewSeededPicker(9))
	history := []chat.Exchange{
		exchange("I feel sad", "It's okay to feel sad sometimes.", "sad"),
		exchange("what's the time", "How has your day been going?", "neutral"),
	}
	assert.Equal(t, NeutralFallback, r.Classify("yeah", "", history))
}

func TestContextRuleFallsThroughWithoutReplyIntent(t *testing.T) {
	r := New(nil, NewSeededPicker(9))
	history := []chat.Exchange{exchange("I feel sad", "It's okay to feel sad sometimes.", "sad")}

	assert.Equal(t, NeutralFallback, r.Classify("the weather is cloudy today", "", history))
	assert.Equal(t, EmotionAngry, r.Classify("my roommate never cleans up, I'm furious", "", history))
}

func TestContextRuleRunsBeforeEmotionKeywords(t *testing.T) {
	r := New(nil, NewSeededPicker(9))
	history := []chat.Exchange{exchange("I feel sad", "It's okay to feel sad sometimes.", "sad")}

	reply := r.Select("yes, still really sad", "", history)
	assert.Equal(t, ContextFollowup, reply.Category)
	assert.Equal(t, FollowupPool(TopicSad, IntentDeepen), reply.Pool)
}

func TestFallbackTotality(t *testing.T) {
	r := New(nil, NewSeededPicker(21))
	pool := r.catalog.Templates(NeutralFallback.Pool())

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		text := r.GenerateResponse("the weather is cloudy today", "user-1", "", nil)
		require.Contains(t, pool, text)
		seen[text] = true
	}
	assert.Len(t, seen, len(pool), "uniform draws should eventually cover the whole pool")
}

func TestSeededPickerIsReproducible(t *testing.T) {
	a := New(nil, NewSeededPicker(42))
	b := New(nil, NewSeededPicker(42))
	for i := 0; i < 25; i++ {
		require.Equal(t,
			a.GenerateResponse("I feel so anxious", "u", "", nil),
			b.GenerateResponse("I feel so anxious", "u", "", nil))
	}
}

func TestConcurrentSelect(t *testing.T) {
	r := New(nil, NewSeededPicker(99))
	history := []chat.Exchange{exchange("I'm so worried about tomorrow", "Let's take it slow.", "fear")}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := r.Classify("yes, still", "", history); got != ContextFollowup {
					t.Errorf("unexpected category %s", got)
					return
				}
				_ = r.GenerateResponse("hello there", "u", "", nil)
			}
		}()
	}
	wg.Wait()
}

func TestFollowupIgnoresIncompleteExchange(t *testing.T) {
	r := New(nil, NewSeededPicker(5))
	history := []chat.Exchange{exchange("I feel so sad today", "   ", "sadness")}
	assert.NotEqual(t, ContextFollowup, r.Classify("yeah", "", history))
}

func TestMentionsSubstance(t *testing.T) {
	assert.True(t, MentionsSubstance("Went through withdrawal last month"))
	assert.True(t, MentionsSubstance("I DRINK too much"))
	assert.False(t, MentionsSubstance("something about my method"))
	assert.True(t, MentionsSubstance("I had a relapse last night"))
	assert.True(t, MentionsSubstance("my medication makes me numb"))
	assert.True(t, MentionsSubstance("I took a pill"))
	assert.True(t, MentionsSubstance("Meth. Again."))
}

type pickerFunc func(n int) int

func (f pickerFunc) IntN(n int) int { return f(n) }
