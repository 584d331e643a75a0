package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestionnaire() Questionnaire {
	return Questionnaire{
		Title:     "Sample",
		Questions: []string{"q0", "q1", "q2", "q3"},
		Options: []Option{
			{Text: "Never", Value: 0},
			{Text: "Sometimes", Value: 1},
			{Text: "Often", Value: 2},
			{Text: "Always", Value: 3},
		},
		Results: []ResultBand{
			{Score: 3, Text: "low"},
			{Score: 7, Text: "moderate"},
			{Score: 12, Text: "high"},
		},
	}
}

func TestScoreSumsAnswers(t *testing.T) {
	q := sampleQuestionnaire()

	result, err := q.Score(map[int]int{0: 1, 1: 2, 2: 0, 3: 1})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Score)
	assert.Equal(t, "moderate", result.Text)
}

func TestScoreBandBoundaries(t *testing.T) {
	q := sampleQuestionnaire()

	low, err := q.Score(map[int]int{0: 0, 1: 1, 2: 1, 3: 1})
	require.NoError(t, err)
	assert.Equal(t, "low", low.Text)

	high, err := q.Score(map[int]int{0: 3, 1: 3, 2: 3, 3: 3})
	require.NoError(t, err)
	assert.Equal(t, 12, high.Score)
	assert.Equal(t, "high", high.Text)
}

func TestScoreReverseScoring(t *testing.T) {
	q := sampleQuestionnaire()
	q.ReverseScored = []int{1, 3}

	// Reversed questions invert against the max option value (3).
	result, err := q.Score(map[int]int{0: 2, 1: 0, 2: 2, 3: 3})
	require.NoError(t, err)

	assert.Equal(t, 2+3+2+0, result.Score)
}

func TestScoreRejectsIncompleteAnswers(t *testing.T) {
	q := sampleQuestionnaire()

	_, err := q.Score(map[int]int{0: 1})
	assert.Error(t, err)
}

func TestScoreRejectsUnknownQuestion(t *testing.T) {
	q := sampleQuestionnaire()

	_, err := q.Score(map[int]int{0: 1, 1: 1, 2: 1, 7: 1})
	assert.Error(t, err)
}
