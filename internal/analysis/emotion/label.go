package emotion

import "strings"

// Label 表示回复选择器能够识别的情绪标签。
type Label string

const (
	Neutral Label = "neutral"
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
	Anxious Label = "anxious"
)

// aliases 把外部分类器（面部/语音模型、前端按钮）的输出映射到内部标签。
var aliases = map[string]Label{
	"neutral":   Neutral,
	"calm":      Neutral,
	"surprise":  Neutral,
	"surprised": Neutral,
	"happy":     Happy,
	"happiness": Happy,
	"joy":       Happy,
	"sad":       Sad,
	"sadness":   Sad,
	"angry":     Angry,
	"anger":     Angry,
	"disgust":   Angry,
	"contempt":  Angry,
	"anxious":   Anxious,
	"anxiety":   Anxious,
	"fear":      Anxious,
	"fearful":   Anxious,
}

// Normalize 将任意标签规范化，未知或空值一律视为 Neutral。
func Normalize(raw string) Label {
	key := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := aliases[key]; ok {
		return label
	}
	return Neutral
}

// Parse 与 Normalize 类似，但会报告标签是否被识别。
func Parse(raw string) (Label, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	label, ok := aliases[key]
	return label, ok
}

// Display 返回用于持久化和统计的标签写法，例如 "Sad"。
func (l Label) Display() string {
	if l == "" {
		return "Neutral"
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}
