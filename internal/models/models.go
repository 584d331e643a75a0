package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type MessageKind string

const (
	KindNormal  MessageKind = "normal"
	KindCrisis  MessageKind = "crisis"
	KindInsight MessageKind = "insight"
)

type Feedback string

const (
	FeedbackNone     Feedback = ""
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// Utterance is one entry in a session's ordered message log. The log is
// append-only; the only mutation allowed after creation is setting
// Feedback, at most once.
type Utterance struct {
	ID          string         `json:"id"`
	ChatID      int64          `json:"chat_id"`
	Role        Role           `json:"role"`
	Kind        MessageKind    `json:"kind"`
	Content     string         `json:"content"`
	Emotion     *EmotionResult `json:"emotion,omitempty"`
	Suggestions []Suggestion   `json:"suggestions,omitempty"`
	Feedback    Feedback       `json:"feedback,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EmotionScore is one (label, confidence) pair from a classification.
type EmotionScore struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// EmotionResult is the normalized outcome of one classification request.
// Valence and arousal are always populated after gateway normalization.
type EmotionResult struct {
	Primary  string         `json:"primary"`
	Emotions []EmotionScore `json:"emotions"`
	Valence  float64        `json:"valence"`
	Arousal  float64        `json:"arousal"`
	Fallback bool           `json:"fallback,omitempty"`
}

// TopConfidence returns the confidence of the highest-ranked emotion,
// or zero when the ranked list is empty.
func (r *EmotionResult) TopConfidence() float64 {
	if r == nil || len(r.Emotions) == 0 {
		return 0
	}
	return r.Emotions[0].Confidence
}

// MoodEntry is one row of the longitudinal mood record. Entries are
// appended once per user turn and never mutated.
type MoodEntry struct {
	ChatID     int64     `json:"chat_id"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Excerpt    string    `json:"excerpt"`
	Valence    float64   `json:"valence"`
	Arousal    float64   `json:"arousal"`
	CreatedAt  time.Time `json:"created_at"`
}

// Technique is one entry of the immutable coping-technique catalog.
type Technique struct {
	Icon        string   `json:"icon" yaml:"icon"`
	Description string   `json:"description" yaml:"description"`
	Steps       []string `json:"steps" yaml:"steps"`
	Duration    string   `json:"duration" yaml:"duration"`
}

// Suggestion is a coping technique selected from the catalog for one
// assistant reply.
type Suggestion struct {
	Name    string    `json:"name"`
	Details Technique `json:"details"`
}

// Session is the per-chat conversational state.
type Session struct {
	ChatID       int64     `json:"chat_id"`
	DisplayName  string    `json:"display_name,omitempty"`
	InsightShown bool      `json:"insight_shown"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}
