package companion

import "github.com/shamik143/mindfulcompanion/internal/models"

// TrendAnalyzer watches the mood history for a sustained negative
// pattern. It is a pure level-triggered check: the engine re-evaluates it
// after every mood append, and the insight it requests is inserted at
// most once per session.
type TrendAnalyzer struct {
	negative map[string]bool
	window   int
}

func NewTrendAnalyzer(negativeEmotions []string) *TrendAnalyzer {
	set := make(map[string]bool, len(negativeEmotions))
	for _, e := range negativeEmotions {
		set[e] = true
	}
	return &TrendAnalyzer{negative: set, window: 3}
}

// ShouldTrigger reports whether the most recent window of mood entries is
// uniformly negative and no insight has been shown yet.
func (a *TrendAnalyzer) ShouldTrigger(history []*models.MoodEntry, insightShown bool) bool {
	if insightShown || len(history) < a.window {
		return false
	}
	for _, entry := range history[len(history)-a.window:] {
		if !a.negative[entry.Emotion] {
			return false
		}
	}
	return true
}
