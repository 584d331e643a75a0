package companion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

func TestSelectFollowsRecommendationOrder(t *testing.T) {
	cat := loadCatalog(t)
	s := NewSuggestionSelector(cat.Recommendations, cat.Techniques, zap.NewNop())

	suggestions := s.Select(&models.EmotionResult{Primary: "sadness"})

	require.Equal(t, len(cat.Recommendations["sadness"]), len(suggestions))
	for i, name := range cat.Recommendations["sadness"] {
		assert.Equal(t, name, suggestions[i].Name)
		assert.NotEmpty(t, suggestions[i].Details.Description)
		assert.NotEmpty(t, suggestions[i].Details.Steps)
	}
}

func TestSelectSkipsUnresolvableNames(t *testing.T) {
	cat := loadCatalog(t)
	s := NewSuggestionSelector(cat.Recommendations, cat.Techniques, zap.NewNop())

	// The neutral list carries one name with no catalog entry; it must
	// be dropped silently rather than surfaced half-broken.
	suggestions := s.Select(&models.EmotionResult{Primary: "neutral"})

	assert.Len(t, suggestions, len(cat.Recommendations["neutral"])-1)
	for _, suggestion := range suggestions {
		assert.NotEqual(t, "Values Clarification", suggestion.Name)
	}
}

func TestSelectUnknownEmotionFallsBackToNeutral(t *testing.T) {
	cat := loadCatalog(t)
	s := NewSuggestionSelector(cat.Recommendations, cat.Techniques, zap.NewNop())

	unknown := s.Select(&models.EmotionResult{Primary: "bewilderment"})
	neutral := s.Select(&models.EmotionResult{Primary: "neutral"})

	assert.Equal(t, neutral, unknown)
}

func TestSelectNilResult(t *testing.T) {
	cat := loadCatalog(t)
	s := NewSuggestionSelector(cat.Recommendations, cat.Techniques, zap.NewNop())

	suggestions := s.Select(nil)
	assert.NotEmpty(t, suggestions)
}

func TestSelectEveryRecommendedEmotion(t *testing.T) {
	cat := loadCatalog(t)
	s := NewSuggestionSelector(cat.Recommendations, cat.Techniques, zap.NewNop())

	for emotion := range cat.Recommendations {
		suggestions := s.Select(&models.EmotionResult{Primary: emotion})
		assert.NotEmpty(t, suggestions, "emotion %s", emotion)
	}
}
