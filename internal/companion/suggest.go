package companion

import (
	"go.uber.org/zap"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

// SuggestionSelector maps a primary emotion to its ordered list of coping
// techniques, resolving each recommended name against the technique
// catalog. The recommendation order is the display priority.
type SuggestionSelector struct {
	recommendations map[string][]string
	techniques      map[string]models.Technique
	logger          *zap.Logger
}

func NewSuggestionSelector(recommendations map[string][]string, techniques map[string]models.Technique, logger *zap.Logger) *SuggestionSelector {
	return &SuggestionSelector{
		recommendations: recommendations,
		techniques:      techniques,
		logger:          logger,
	}
}

// Select returns the resolved suggestions for the primary emotion of
// result, falling back to the neutral list for unknown labels. A
// recommended name missing from the technique catalog is a configuration
// inconsistency: it is logged and skipped, never surfaced as a broken
// entry and never allowed to fail the turn.
func (s *SuggestionSelector) Select(result *models.EmotionResult) []models.Suggestion {
	label := "neutral"
	if result != nil && result.Primary != "" {
		label = result.Primary
	}

	names, ok := s.recommendations[label]
	if !ok {
		names = s.recommendations["neutral"]
	}

	suggestions := make([]models.Suggestion, 0, len(names))
	for _, name := range names {
		details, ok := s.techniques[name]
		if !ok {
			s.logger.Warn("Recommended technique missing from catalog",
				zap.String("technique", name),
				zap.String("emotion", label))
			continue
		}
		suggestions = append(suggestions, models.Suggestion{Name: name, Details: details})
	}
	return suggestions
}
