// Package assessment scores self-assessment questionnaires. The
// questionnaires themselves are catalog data; this package only knows how
// to sum answers and map totals to result bands.
package assessment

import "fmt"

type Option struct {
	Text  string `yaml:"text"`
	Value int    `yaml:"value"`
}

type ResultBand struct {
	Score int    `yaml:"score"`
	Text  string `yaml:"text"`
}

type Questionnaire struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Questions   []string `yaml:"questions"`
	Options     []Option `yaml:"options"`
	// ReverseScored holds zero-based question indexes whose answer value
	// is inverted against the highest option value before summing.
	ReverseScored []int        `yaml:"reverse_scored"`
	Results       []ResultBand `yaml:"results"`
}

// Result is the outcome of scoring a completed questionnaire.
type Result struct {
	Score int
	Text  string
}

func (q *Questionnaire) maxOptionValue() int {
	max := 0
	for _, o := range q.Options {
		if o.Value > max {
			max = o.Value
		}
	}
	return max
}

func (q *Questionnaire) reversed(index int) bool {
	for _, i := range q.ReverseScored {
		if i == index {
			return true
		}
	}
	return false
}

// Score sums the answers (answers[i] is the chosen option value for
// question i) and returns the matching result band: the first band whose
// threshold is >= the total, or the last band when the total exceeds
// every threshold.
func (q *Questionnaire) Score(answers map[int]int) (Result, error) {
	if len(answers) != len(q.Questions) {
		return Result{}, fmt.Errorf("expected %d answers, got %d", len(q.Questions), len(answers))
	}

	max := q.maxOptionValue()
	total := 0
	for idx, value := range answers {
		if idx < 0 || idx >= len(q.Questions) {
			return Result{}, fmt.Errorf("answer references unknown question %d", idx)
		}
		if q.reversed(idx) {
			total += max - value
		} else {
			total += value
		}
	}

	band := q.Results[len(q.Results)-1]
	for _, r := range q.Results {
		if total <= r.Score {
			band = r
			break
		}
	}

	return Result{Score: total, Text: band.Text}, nil
}
