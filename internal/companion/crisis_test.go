package companion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamik143/mindfulcompanion/internal/catalog"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

func TestCrisisDetectorMatchesPhrases(t *testing.T) {
	d := NewCrisisDetector(loadCatalog(t).CrisisPhrases)

	cases := []string{
		"I want to kill myself",
		"i've been thinking about suicide a lot",
		"Sometimes I just want it all to end.",
		"I can't go on anymore",
		"KMS",
		"I'd be better off dead, honestly",
	}
	for _, text := range cases {
		assert.True(t, d.Detect(text), "expected crisis match for %q", text)
	}
}

func TestCrisisDetectorIgnoresOrdinaryText(t *testing.T) {
	d := NewCrisisDetector(loadCatalog(t).CrisisPhrases)

	cases := []string{
		"I had a rough day at work",
		"this deadline is killing my weekend plans",
		"the shield quest in that game is fun",
		"I love my cat",
	}
	for _, text := range cases {
		assert.False(t, d.Detect(text), "unexpected crisis match for %q", text)
	}
}

func TestCrisisDetectorShortTokensNeedBoundaries(t *testing.T) {
	d := NewCrisisDetector(loadCatalog(t).CrisisPhrases)

	assert.True(t, d.Detect("thinking about sh again"))
	assert.False(t, d.Detect("I polished the code"))
	assert.False(t, d.Detect("she should show up soon"))
}

func TestCrisisDetectorNormalizesPunctuationAndCase(t *testing.T) {
	d := NewCrisisDetector(loadCatalog(t).CrisisPhrases)

	assert.True(t, d.Detect("END. MY. LIFE."))
	assert.True(t, d.Detect("i want to die!!!"))
}
