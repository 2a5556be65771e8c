package unified

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

const TopicGeneral = "general"

// Context is the per-request analysis of one message. It is derived fresh
// for every request and discarded afterwards; only the copy embedded in a
// Turn outlives the request.
type Context struct {
	MessageLength int            `json:"message_length"`
	Sentiment     Sentiment      `json:"sentiment"`
	Topic         string         `json:"topic"`
	Complexity    Complexity     `json:"complexity"`
	History       []Turn         `json:"conversation_history"`
	TimeOfDay     int            `json:"time_of_day"`
	Preferences   map[string]any `json:"user_preferences,omitempty"`
	Error         string         `json:"error,omitempty"`
}

var positiveWords = []string{"好", "棒", "喜欢", "爱", "开心", "高兴", "满意", "优秀", "精彩", "谢谢", "感谢"}

var negativeWords = []string{"不好", "讨厌", "难过", "失望", "糟糕", "问题", "困难", "痛苦", "烦", "累"}

// topicKeywords are checked in this exact order; the first topic with any
// keyword present in the message wins.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"technology", []string{"技术", "编程", "代码", "软件", "硬件", "电脑", "手机", "互联网", "AI", "人工智能"}},
	{"business", []string{"商业", "工作", "公司", "项目", "管理", "市场", "销售", "投资", "创业"}},
	{"education", []string{"学习", "教育", "学校", "课程", "知识", "考试", "老师", "学生", "培训"}},
	{"entertainment", []string{"娱乐", "游戏", "电影", "音乐", "艺术", "旅游", "美食", "运动", "笑话"}},
	{"personal", []string{"个人", "生活", "家庭", "朋友", "情感", "健康", "心情", "梦想", "未来"}},
}

// complexityMarks force "complex" regardless of message length.
var complexityMarks = []string{"？", "!", "。", "，"}

// HistoryLookup exposes read access to the session history store.
type HistoryLookup interface {
	Get(sessionID string) []Turn
}

// PreferenceLookup exposes read access to stored per-session preferences.
type PreferenceLookup interface {
	Get(sessionID string) (map[string]any, bool)
}

// Analyzer derives sentiment, topic, complexity and time-of-day from a raw
// message. It never fails and has no side effects.
type Analyzer struct {
	clock func() time.Time
}

func NewAnalyzer() *Analyzer { return &Analyzer{clock: time.Now} }

func (a *Analyzer) Analyze(message, sessionID string, history HistoryLookup, prefs PreferenceLookup) Context {
	c := Context{
		MessageLength: utf8.RuneCountInString(message),
		Sentiment:     analyzeSentiment(message),
		Topic:         detectTopic(message),
		Complexity:    assessComplexity(message),
		TimeOfDay:     a.clock().Hour(),
	}
	if history != nil {
		c.History = history.Get(sessionID)
	}
	if c.History == nil {
		c.History = []Turn{}
	}
	if prefs != nil {
		if p, ok := prefs.Get(sessionID); ok {
			c.Preferences = p
		}
	}
	return c
}

// analyzeSentiment counts how many words of each fixed set appear in the
// message (substring containment, one count per word); majority wins and a
// tie is neutral.
func analyzeSentiment(message string) Sentiment {
	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(message, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(message, w) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func detectTopic(message string) string {
	for _, t := range topicKeywords {
		for _, kw := range t.keywords {
			if strings.Contains(message, kw) {
				return t.topic
			}
		}
	}
	return TopicGeneral
}

// assessComplexity checks punctuation together with the 100-rune threshold
// before the medium threshold, so a short message with a listed mark is
// complex, not simple.
func assessComplexity(message string) Complexity {
	length := utf8.RuneCountInString(message)
	if length > 100 {
		return ComplexityComplex
	}
	for _, m := range complexityMarks {
		if strings.Contains(message, m) {
			return ComplexityComplex
		}
	}
	if length > 50 {
		return ComplexityMedium
	}
	return ComplexitySimple
}
