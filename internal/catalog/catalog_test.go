package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cat.Templates)
	assert.NotEmpty(t, cat.CrisisResponse)
	assert.NotEmpty(t, cat.InsightMessage)
	assert.NotEmpty(t, cat.CrisisPhrases)
	assert.NotEmpty(t, cat.Dimensions)
	assert.NotEmpty(t, cat.NegativeEmotions)
	assert.NotEmpty(t, cat.Techniques)
	assert.NotEmpty(t, cat.Recommendations)
	assert.NotEmpty(t, cat.Regions)
	assert.NotEmpty(t, cat.Assessments)
}

func TestTemplatesAreComplete(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	for emotion, tpl := range cat.Templates {
		assert.NotEmpty(t, tpl.Acknowledgment, "emotion %s", emotion)
		assert.NotEmpty(t, tpl.Exploration, "emotion %s", emotion)
		assert.NotEmpty(t, tpl.Question, "emotion %s", emotion)
	}
}

func TestNegativeEmotionsHaveDimensions(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	for _, emotion := range cat.NegativeEmotions {
		dim, ok := cat.Dimensions[emotion]
		require.True(t, ok, "emotion %s has no dimension entry", emotion)
		assert.Negative(t, dim.Valence, "emotion %s", emotion)
	}
}

func TestTechniquesAreComplete(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	for name, technique := range cat.Techniques {
		assert.NotEmpty(t, technique.Description, "technique %s", name)
		assert.NotEmpty(t, technique.Steps, "technique %s", name)
		assert.NotEmpty(t, technique.Duration, "technique %s", name)
	}
}

func TestRecommendationsResolveExceptKnownGap(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	unresolved := map[string]bool{}
	for emotion, names := range cat.Recommendations {
		assert.NotEmpty(t, names, "emotion %s", emotion)
		for _, name := range names {
			if _, ok := cat.Techniques[name]; !ok {
				unresolved[name] = true
			}
		}
	}

	// 'Values Clarification' is recommended but has no technique entry;
	// the selector drops it at display time.
	assert.Equal(t, map[string]bool{"Values Clarification": true}, unresolved)
}

func TestHotlineRegions(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	for _, region := range cat.Regions {
		assert.NotEmpty(t, region.Name)
		assert.NotEmpty(t, region.Hotlines, "region %s", region.Name)
		for _, hotline := range region.Hotlines {
			assert.NotEmpty(t, hotline.Name, "region %s", region.Name)
			assert.NotEmpty(t, hotline.Phone, "region %s hotline %s", region.Name, hotline.Name)
		}
	}
}

func TestAssessmentsAreWellFormed(t *testing.T) {
	cat, err := Load()
	require.NoError(t, err)

	for key, q := range cat.Assessments {
		assert.NotEmpty(t, q.Title, "assessment %s", key)
		assert.NotEmpty(t, q.Questions, "assessment %s", key)
		assert.NotEmpty(t, q.Options, "assessment %s", key)
		assert.NotEmpty(t, q.Results, "assessment %s", key)
		for _, idx := range q.ReverseScored {
			assert.GreaterOrEqual(t, idx, 0, "assessment %s", key)
			assert.Less(t, idx, len(q.Questions), "assessment %s", key)
		}
	}
}
