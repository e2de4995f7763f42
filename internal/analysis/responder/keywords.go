package responder

import "strings"

// 关键词均为小写。匹配时话语会先转小写，常见标点替换为空格，并在两端各补一个空格，
// 因此以空格开头的关键词（如 " hey"）只会命中词首，避免 "they" 之类的误判；
// 以空格结尾的关键词（如 " hi "）也能命中 "Hi." 或 "meth, again" 这类紧跟标点的写法。

var crisisKeywords = []string{
	"suicide", "suicidal", "kill myself", "end it all", "end my life", "want to die",
	"wanna die", "self harm", "self-harm", "hurt myself", "cut myself", "take my own life",
	"no reason to live", "better off dead",
}

var recoveryIntentKeywords = []string{
	"quit", "stop", "sober", "clean", "recovery", "recovering", "rehab", "give up",
	"giving up", "cut back", "cutting back", "stay away",
}

var useIntentKeywords = []string{
	"want", "craving", "crave", "tempted", "urge", "miss", "need", "relapse",
	"using again",
}

var substanceKeywords = []string{
	"drug", "alcohol", " drink", "drunk", "booze", " beer", " wine", "vodka", "weed",
	"marijuana", "cannabis", "cocaine", "heroin", " meth ", "methamphetamine", "opioid", "fentanyl", "pills",
	"smoking", "cigarette", " vape", "nicotine", "substance", "addiction", "withdrawal",
}

// drugFlagKeywords 决定是否给一条记录打上药物提及标记，范围比 substanceKeywords 更宽。
var drugFlagKeywords = append([]string{"relapse", "pill", "medication"}, substanceKeywords...)

var greetingKeywords = []string{
	"hello", " hi ", " hey", "good morning", "good afternoon",
	"good evening", "greetings", "howdy", "what's up",
}

var farewellKeywords = []string{
	" bye", "goodbye", "see you", "good night", "talk later", "talk to you later", "gotta go",
}

var thanksKeywords = []string{
	"thank", "appreciate", "grateful",
}

var anxiousKeywords = []string{
	"anxious", "anxiety", "worried", "worry", "nervous", "panic", "stress", "overwhelmed",
	"scared", "afraid", "on edge",
}

var sadKeywords = []string{
	" sad", "depressed", "depression", "lonely", "unhappy", "crying", " cry ", "hopeless",
	"miserable", "heartbroken", "feel down", "feeling down", "upset", "grief",
}

var angryKeywords = []string{
	"angry", " anger", "furious", " mad ", "mad at", "frustrated",
	"frustrating", "annoyed", "pissed", "irritated", " hate", " rage", "outraged",
}

var happyKeywords = []string{
	"happy", "glad", "great", "excited", "joy", "wonderful", "amazing", "awesome",
	"fantastic", "thrilled", "good news",
}

var helpKeywords = []string{
	"help", "struggling", "struggle", "hard time", "difficult", "advice",
	"what should i do", "don't know what to do",
}

var affirmativeKeywords = []string{
	" yes", " yeah", " yep", " yup", "still", " very", "really", "so much", "a lot",
	"definitely", "kind of", "kinda", "i guess", "of course",
}

var improvementKeywords = []string{
	"better", "calmer", "helped", "helps", "relieved", "improving", "improved",
	"a bit less", "not as bad", "okay now", "ok now", "fine now", "good now",
}

// punctuationFolder 统一弯引号，并把断词标点替换为空格。撇号和连字符保留，
// "don't"、"self-harm" 等关键词依赖它们。
var punctuationFolder = strings.NewReplacer(
	"\u2019", "'", "\u2018", "'",
	".", " ", ",", " ", "!", " ", "?", " ", ";", " ", ":", " ",
	"\"", " ", "(", " ", ")", " ",
)

// normalize 将话语转为小写、折叠标点并在两端补空格，供 containsAny 使用。
func normalize(text string) string {
	return " " + punctuationFolder.Replace(strings.ToLower(strings.TrimSpace(text))) + " "
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// MentionsSubstance 报告话语是否应被标记为药物提及，除物质词汇外还包括复吸和用药。
func MentionsSubstance(text string) bool {
	return containsAny(normalize(text), drugFlagKeywords)
}
