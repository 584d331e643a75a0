package companion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shamik143/mindfulcompanion/internal/models"
)

func TestComposeThreeSegments(t *testing.T) {
	c := NewTemplateComposer(loadCatalog(t).Templates)

	reply := c.Compose(&models.EmotionResult{Primary: "sadness"}, "")

	parts := strings.Split(reply, "\n\n")
	assert.Len(t, parts, 3)
	for _, part := range parts {
		assert.NotEmpty(t, part)
	}
}

func TestComposeInsertsDisplayName(t *testing.T) {
	c := NewTemplateComposer(loadCatalog(t).Templates)

	named := c.Compose(&models.EmotionResult{Primary: "sadness"}, "Priya")
	anonymous := c.Compose(&models.EmotionResult{Primary: "sadness"}, "")

	assert.Contains(t, named, ", Priya")
	assert.NotContains(t, anonymous, "{name}")
	assert.NotContains(t, named, "{name}")
}

func TestComposeUnknownEmotionFallsBackToNeutral(t *testing.T) {
	cat := loadCatalog(t)
	c := NewTemplateComposer(cat.Templates)

	unknown := c.Compose(&models.EmotionResult{Primary: "bewilderment"}, "")
	neutral := c.Compose(&models.EmotionResult{Primary: "neutral"}, "")

	assert.Equal(t, neutral, unknown)
}

func TestComposeNilResult(t *testing.T) {
	c := NewTemplateComposer(loadCatalog(t).Templates)

	reply := c.Compose(nil, "Sam")
	assert.NotEmpty(t, reply)
	assert.Len(t, strings.Split(reply, "\n\n"), 3)
}

func TestComposeEveryTemplateEmotion(t *testing.T) {
	cat := loadCatalog(t)
	c := NewTemplateComposer(cat.Templates)

	for emotion := range cat.Templates {
		reply := c.Compose(&models.EmotionResult{Primary: emotion}, "Alex")
		assert.Len(t, strings.Split(reply, "\n\n"), 3, "emotion %s", emotion)
		assert.NotContains(t, reply, "{name}", "emotion %s", emotion)
	}
}
