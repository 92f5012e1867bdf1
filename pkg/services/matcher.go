package services

import (
	"strings"

	"github.com/openccp/openccp-engine/pkg/models"
)

// keywordHit pairs a keyword with how often its term occurred in a text.
type keywordHit struct {
	keyword *models.Keyword
	count   int
}

// findMatches counts occurrences of each keyword's literal term in text.
// Matching is plain substring counting with the keyword's case flag honored;
// pattern metacharacters in terms carry no special meaning. Keywords with
// zero occurrences are omitted. Empty text short-circuits without touching
// the keyword list.
func findMatches(text string, keywords []*models.Keyword) []keywordHit {
	if text == "" {
		return nil
	}

	var hits []keywordHit
	for _, kw := range keywords {
		if kw.Term == "" {
			continue
		}

		haystack, needle := text, kw.Term
		if !kw.CaseSensitive {
			haystack = strings.ToLower(haystack)
			needle = strings.ToLower(needle)
		}

		if count := strings.Count(haystack, needle); count > 0 {
			hits = append(hits, keywordHit{keyword: kw, count: count})
		}
	}
	return hits
}

// computeScore sums weight x count over all hits.
func computeScore(hits []keywordHit) float64 {
	var score float64
	for _, hit := range hits {
		score += hit.keyword.Weight * float64(hit.count)
	}
	return score
}

// toMatchDetails flattens hits into the persisted match-detail shape,
// preserving hit order so repeated runs serialize identically.
func toMatchDetails(hits []keywordHit) []models.KeywordMatch {
	matches := make([]models.KeywordMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, models.KeywordMatch{
			Term:   hit.keyword.Term,
			Count:  hit.count,
			Weight: hit.keyword.Weight,
		})
	}
	return matches
}
