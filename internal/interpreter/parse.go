package interpreter

import (
	"encoding/json"
	"strings"

	log "github.com/sirupsen/logrus"

	"vitrine/internal/models"
)

// parseInterpretation repairs a backend response into a valid Interpretation.
// A response that cannot be parsed at all degrades to the fallback; partial
// shapes are coerced field by field:
//   - keywords not a string array -> [query]
//   - confidence missing, null or non-numeric -> 0.5 (a repair default,
//     deliberately distinct from the 0 "non-AI" sentinel)
//
// The case-folded original query is always present in the returned keywords.
func parseInterpretation(raw, query string) models.Interpretation {
	raw = stripCodeFence(strings.TrimSpace(raw))

	var loose struct {
		Keywords   json.RawMessage `json:"keywords"`
		Category   *string         `json:"category"`
		Confidence json.RawMessage `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		log.Warnf("Interpretation response is not valid JSON for query %q: %v", query, err)
		return Fallback(query)
	}

	res := models.Interpretation{Category: loose.Category}

	var keywords []string
	if len(loose.Keywords) == 0 || json.Unmarshal(loose.Keywords, &keywords) != nil || keywords == nil {
		log.Debugf("Coercing non-array keywords for query %q", query)
		keywords = []string{query}
	}
	res.Keywords = ensureQueryKeyword(keywords, query)

	conf, ok := parseConfidence(loose.Confidence)
	if !ok {
		log.Debugf("Coercing non-numeric confidence for query %q", query)
		conf = 0.5
	}
	res.Confidence = conf

	return res
}

func parseConfidence(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var conf float64
	if err := json.Unmarshal(raw, &conf); err != nil {
		return 0, false
	}
	return conf, true
}

// ensureQueryKeyword appends the case-folded original query unless a
// semantically equivalent keyword is already present.
func ensureQueryKeyword(keywords []string, query string) []string {
	folded := strings.ToLower(strings.TrimSpace(query))
	for _, kw := range keywords {
		if strings.ToLower(strings.TrimSpace(kw)) == folded {
			return keywords
		}
	}
	return append(keywords, folded)
}

// stripCodeFence removes a markdown ```json fence some models wrap around
// their JSON output despite the response MIME type.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
