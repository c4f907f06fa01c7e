package search

import "github.com/salonatlas/salon-service/internal/geo"

// categorySynonyms maps a category slug to the display-name variants that
// must also match it. This is a closed, audited list, not a fuzzy matcher:
// add a pair here only when real data carries the variant.
var categorySynonyms = map[string][]string{
	// "berber" records sometimes carry the longer display name.
	"berber": {"erkek kuaförü", "berber dükkanı"},
	// ASCII slug for salons categorized under the accented display name.
	"kuafor": {"kuaför", "bayan kuaförü"},
}

// synonymMatch reports whether the category display name is a known
// variant for the given slug.
func synonymMatch(slug, categoryName string) bool {
	variants, ok := categorySynonyms[geo.Normalize(slug)]
	if !ok {
		return false
	}
	for _, variant := range variants {
		if geo.Equal(categoryName, variant) {
			return true
		}
	}
	return false
}
