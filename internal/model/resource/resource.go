package resource

// Phase 是呼吸练习中的一个计时阶段。
type Phase struct {
	Text    string `json:"text"`
	Seconds int    `json:"seconds"`
	Action  string `json:"action"`
}

// BreathingGuide describes a guided breathing technique shown to the user.
type BreathingGuide struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Steps  []string `json:"steps"`
	Phases []Phase  `json:"phases"`
}

// Contact is a support line surfaced alongside crisis and recovery replies.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// Seed provides the built-in breathing guides and support contacts.
func Seed() ([]BreathingGuide, []Contact) {
	guides := []BreathingGuide{
		{
			ID:    "478",
			Title: "4-7-8 Breathing",
			Steps: []string{
				"Empty your lungs completely",
				"Breathe in through your nose for 4 seconds",
				"Hold your breath for 7 seconds",
				"Exhale through your mouth for 8 seconds",
				"Repeat this cycle 4 times",
			},
			Phases: []Phase{
				{Text: "Breathe In Through Nose", Seconds: 4, Action: "expand"},
				{Text: "Hold Breath", Seconds: 7, Action: "hold"},
				{Text: "Exhale Through Mouth", Seconds: 8, Action: "contract"},
			},
		},
		{
			ID:    "box",
			Title: "Box Breathing",
			Steps: []string{
				"Sit upright in a comfortable position",
				"Exhale completely through your mouth",
				"Inhale through your nose for 4 seconds",
				"Hold your breath for 4 seconds",
				"Exhale through your mouth for 4 seconds",
				"Hold empty for 4 seconds",
				"Repeat for 5-10 cycles",
			},
			Phases: []Phase{
				{Text: "Breathe In", Seconds: 4, Action: "expand"},
				{Text: "Hold Breath", Seconds: 4, Action: "hold"},
				{Text: "Exhale Slowly", Seconds: 4, Action: "contract"},
				{Text: "Hold Empty", Seconds: 4, Action: "hold"},
			},
		},
		{
			ID:    "coherent",
			Title: "Coherent Breathing",
			Steps: []string{
				"Find a comfortable seated position",
				"Breathe in through your nose for 5 seconds",
				"Breathe out through your nose for 5 seconds",
				"Maintain this 5-second rhythm",
				"Continue for 5-20 minutes",
				"Focus on smooth, even breaths",
			},
			Phases: []Phase{
				{Text: "Breathe In", Seconds: 5, Action: "expand"},
				{Text: "Exhale Slowly", Seconds: 5, Action: "contract"},
			},
		},
	}

	contacts := []Contact{
		{
			ID:          "crisis-lifeline",
			Name:        "988 Suicide & Crisis Lifeline",
			Phone:       "988",
			Description: "Free, confidential support 24/7 by call or text.",
		},
		{
			ID:          "samhsa",
			Name:        "SAMHSA National Helpline",
			Phone:       "1-800-662-4357",
			Description: "Treatment referral and information for substance use, 24/7.",
		},
	}

	return guides, contacts
}

// CycleSeconds 返回完成一轮练习所需的秒数。
func (g BreathingGuide) CycleSeconds() int {
	total := 0
	for _, phase := range g.Phases {
		total += phase.Seconds
	}
	return total
}
