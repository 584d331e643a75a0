package companion

import (
	"regexp"
	"strings"
)

// CrisisDetector flags utterances that contain crisis-level risk language.
// Detection is plain whole-phrase keyword matching over normalized text.
// That makes it fast and predictable, and it also means false negatives
// are inherent: phrasing the list does not cover will not be flagged.
// This limitation is accepted by design; the detector must not be
// extended with fuzzy or probabilistic matching that could mask risk.
type CrisisDetector struct {
	pattern *regexp.Regexp
}

// stripped is the punctuation removed before matching, so "end. my. life."
// and "end my life" are the same input.
var stripped = strings.NewReplacer(
	".", "", ",", "", "/", "", "#", "", "!", "", "$", "", "%", "",
	"^", "", "&", "", "*", "", ";", "", ":", "", "{", "", "}", "",
	"=", "", "-", "", "_", "", "`", "", "~", "", "(", "", ")", "",
)

func NewCrisisDetector(phrases []string) *CrisisDetector {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(p))
	}

	// Whole-word/phrase boundaries so short tokens like "sh" or "od" do
	// not fire inside unrelated words ("shield", "code").
	pattern := regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
	return &CrisisDetector{pattern: pattern}
}

// Detect reports whether text contains any listed risk phrase as a whole
// word or phrase, case- and punctuation-insensitively.
func (d *CrisisDetector) Detect(text string) bool {
	normalized := stripped.Replace(strings.ToLower(text))
	return d.pattern.MatchString(normalized)
}
