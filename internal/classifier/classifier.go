package classifier

import (
	"context"
	"sort"

	"github.com/shamik143/mindfulcompanion/internal/catalog"
	"github.com/shamik143/mindfulcompanion/internal/models"
)

// Classifier labels a user message with an emotion distribution.
// Implementations never return an error to the caller: when the
// underlying service is unreachable the neutral fallback result is
// returned instead, so a turn can always proceed.
type Classifier interface {
	Classify(ctx context.Context, text string) *models.EmotionResult
	Available() bool
}

// FallbackResult is the neutral result used whenever classification
// cannot be performed.
func FallbackResult() *models.EmotionResult {
	return &models.EmotionResult{
		Primary: "neutral",
		Emotions: []models.EmotionScore{
			{Emotion: "neutral", Confidence: 0.5},
		},
		Valence:  0.0,
		Arousal:  0.1,
		Fallback: true,
	}
}

// NeutralClassifier is the no-backend stand-in: every message gets the
// neutral fallback result.
type NeutralClassifier struct{}

func NewNeutralClassifier() *NeutralClassifier {
	return &NeutralClassifier{}
}

func (c *NeutralClassifier) Classify(ctx context.Context, text string) *models.EmotionResult {
	return FallbackResult()
}

func (c *NeutralClassifier) Available() bool { return false }

// backfillDimensions fills in valence and arousal from the dimension
// table, each independently, for whichever the classifier response
// omitted. An explicit zero in the payload is kept. Unknown emotions
// fall back to a flat 0.0/0.1.
func backfillDimensions(result *models.EmotionResult, hasValence, hasArousal bool, dims map[string]catalog.Dimension) {
	if hasValence && hasArousal {
		return
	}
	dim, ok := dims[result.Primary]
	if !ok {
		dim = catalog.Dimension{Valence: 0.0, Arousal: 0.1}
	}
	if !hasValence {
		result.Valence = dim.Valence
	}
	if !hasArousal {
		result.Arousal = dim.Arousal
	}
}

// normalize sorts emotions by confidence and derives the primary
// label when the response left it empty.
func normalize(result *models.EmotionResult) {
	sort.SliceStable(result.Emotions, func(i, j int) bool {
		return result.Emotions[i].Confidence > result.Emotions[j].Confidence
	})
	if result.Primary == "" && len(result.Emotions) > 0 {
		result.Primary = result.Emotions[0].Emotion
	}
	if result.Primary == "" {
		result.Primary = "neutral"
	}
}
