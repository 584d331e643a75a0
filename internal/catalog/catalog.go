// Package catalog holds the immutable configuration data the dialogue
// core consumes: response templates, the coping-technique catalog,
// per-emotion recommendations, crisis phrases, emotion dimensions, the
// hotline directory, and the self-assessment questionnaires. Everything
// is embedded in the binary and parsed once at process start.
package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shamik143/mindfulcompanion/internal/assessment"
	"github.com/shamik143/mindfulcompanion/internal/models"
)

//go:embed data/*.yaml
var data embed.FS

// ResponseTemplate is the three-part empathetic reply for one emotion.
type ResponseTemplate struct {
	Acknowledgment string `yaml:"acknowledgment"`
	Exploration    string `yaml:"exploration"`
	Question       string `yaml:"question"`
}

// Dimension holds the representative valence/arousal defaults for one
// emotion label.
type Dimension struct {
	Valence float64 `yaml:"valence"`
	Arousal float64 `yaml:"arousal"`
}

// Hotline is one crisis support line in the directory.
type Hotline struct {
	Name      string `yaml:"name"`
	Phone     string `yaml:"phone"`
	Available string `yaml:"available"`
	Website   string `yaml:"website"`
}

// Region groups hotlines by country.
type Region struct {
	Name     string    `yaml:"name"`
	Title    string    `yaml:"title"`
	Hotlines []Hotline `yaml:"hotlines"`
}

// Catalog is the loaded, immutable data set. Callers must treat it as
// read-only.
type Catalog struct {
	Templates        map[string]ResponseTemplate
	CrisisResponse   string
	InsightMessage   string
	CrisisPhrases    []string
	Dimensions       map[string]Dimension
	NegativeEmotions []string
	Techniques       map[string]models.Technique
	Recommendations  map[string][]string
	Regions          []Region
	Assessments      map[string]assessment.Questionnaire
}

// Load parses every embedded catalog file and validates the pieces the
// core cannot operate without.
func Load() (*Catalog, error) {
	c := &Catalog{}

	var templates struct {
		Templates      map[string]ResponseTemplate `yaml:"templates"`
		CrisisResponse string                      `yaml:"crisis_response"`
		InsightMessage string                      `yaml:"insight_message"`
	}
	if err := parse("data/templates.yaml", &templates); err != nil {
		return nil, err
	}
	c.Templates = templates.Templates
	c.CrisisResponse = templates.CrisisResponse
	c.InsightMessage = templates.InsightMessage

	var phrases struct {
		Phrases []string `yaml:"phrases"`
	}
	if err := parse("data/crisis_phrases.yaml", &phrases); err != nil {
		return nil, err
	}
	c.CrisisPhrases = phrases.Phrases

	var dims struct {
		Dimensions       map[string]Dimension `yaml:"dimensions"`
		NegativeEmotions []string             `yaml:"negative_emotions"`
	}
	if err := parse("data/dimensions.yaml", &dims); err != nil {
		return nil, err
	}
	c.Dimensions = dims.Dimensions
	c.NegativeEmotions = dims.NegativeEmotions

	var techniques struct {
		Techniques map[string]models.Technique `yaml:"techniques"`
	}
	if err := parse("data/techniques.yaml", &techniques); err != nil {
		return nil, err
	}
	c.Techniques = techniques.Techniques

	var recs struct {
		Recommendations map[string][]string `yaml:"recommendations"`
	}
	if err := parse("data/recommendations.yaml", &recs); err != nil {
		return nil, err
	}
	c.Recommendations = recs.Recommendations

	var hotlines struct {
		Regions []Region `yaml:"regions"`
	}
	if err := parse("data/hotlines.yaml", &hotlines); err != nil {
		return nil, err
	}
	c.Regions = hotlines.Regions

	var assessments struct {
		Assessments map[string]assessment.Questionnaire `yaml:"assessments"`
	}
	if err := parse("data/assessments.yaml", &assessments); err != nil {
		return nil, err
	}
	c.Assessments = assessments.Assessments

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func parse(name string, out any) error {
	raw, err := data.ReadFile(name)
	if err != nil {
		return fmt.Errorf("error reading catalog file %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("error parsing catalog file %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) validate() error {
	if _, ok := c.Templates["neutral"]; !ok {
		return fmt.Errorf("templates catalog is missing the neutral fallback entry")
	}
	if _, ok := c.Recommendations["neutral"]; !ok {
		return fmt.Errorf("recommendations catalog is missing the neutral fallback entry")
	}
	if c.CrisisResponse == "" {
		return fmt.Errorf("crisis response text is empty")
	}
	if c.InsightMessage == "" {
		return fmt.Errorf("insight message text is empty")
	}
	if len(c.CrisisPhrases) == 0 {
		return fmt.Errorf("crisis phrase list is empty")
	}
	return nil
}
