package medication

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kutbudev/pharm-cli/internal/models"
)

// SuggestionThreshold is the minimum similarity for a name to be offered
// as a "did you mean" suggestion.
const SuggestionThreshold = 0.4

// bigrams splits a name into its set of lowercase character pairs.
func bigrams(s string) map[string]struct{} {
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))
	set := make(map[string]struct{})
	if len(runes) == 1 {
		set[string(runes)] = struct{}{}
	}
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}

// NameSimilarity is the Jaccard coefficient of the character bigrams of
// two names: 0 for no overlap, 1 for the same name in any case.
func NameSimilarity(a, b string) float64 {
	setA := bigrams(a)
	setB := bigrams(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for pair := range setA {
		if _, ok := setB[pair]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// Suggest returns the candidates at least threshold similar to name,
// most similar first.
func Suggest(name string, candidates []string, threshold float64) []string {
	type scored struct {
		name  string
		score float64
	}
	var similar []scored
	for _, c := range candidates {
		if score := NameSimilarity(name, c); score >= threshold {
			similar = append(similar, scored{c, score})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].score > similar[j].score
	})

	names := make([]string, len(similar))
	for i, s := range similar {
		names[i] = s.name
	}
	return names
}

// didYouMean names the closest active medication, or returns "".
func didYouMean(db *models.Database, name string) string {
	names := make([]string, 0, len(db.Medications))
	for _, med := range db.Medications {
		names = append(names, med.Name)
	}
	matches := Suggest(name, names, SuggestionThreshold)
	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf("did you mean '%s'?", matches[0])
}
