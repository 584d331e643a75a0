package classifier

import (
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGPTClassifier(t *testing.T) *GPTClassifier {
	t.Helper()
	return NewGPTClassifier("test-key", "gpt-4o-mini", 300, 0.7, testCatalog(t), zap.NewNop())
}

func completion(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestGPTParseCompletion(t *testing.T) {
	c := testGPTClassifier(t)

	result, err := c.parseCompletion(completion(`{"primary":"Sadness","emotions":{"sadness":0.8,"grief":0.2}}`))
	require.NoError(t, err)

	assert.Equal(t, "sadness", result.Primary)
	assert.InDelta(t, 0.8, result.TopConfidence(), 0.001)
	// Dimensions always come from the table on this path.
	assert.InDelta(t, -0.8, result.Valence, 0.001)
	assert.InDelta(t, 0.2, result.Arousal, 0.001)
}

func TestGPTParseCompletionNoChoices(t *testing.T) {
	c := testGPTClassifier(t)

	_, err := c.parseCompletion(openai.ChatCompletionResponse{})
	assert.Error(t, err)
}

func TestGPTParseCompletionMalformedJSON(t *testing.T) {
	c := testGPTClassifier(t)

	_, err := c.parseCompletion(completion("I'm sorry, I can't help with that."))
	assert.Error(t, err)
}
