// internal/editor/mapnames.go
package editor

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MapPool is the competitive pool the upstream matches free-text map names
// against. The editor keeps the field free text but offers these as
// suggestions.
var MapPool = []string{
	"Ancient",
	"Anubis",
	"Dust2",
	"Inferno",
	"Mirage",
	"Nuke",
	"Overpass",
	"Train",
	"Vertigo",
}

// SuggestMapNames ranks pool maps against a partial name, best match first.
// An empty query returns the whole pool in its fixed order.
func SuggestMapNames(query string) []string {
	if query == "" {
		return MapPool
	}
	ranks := fuzzy.RankFindNormalizedFold(query, MapPool)
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)
	names := make([]string, len(ranks))
	for i, r := range ranks {
		names[i] = r.Target
	}
	return names
}
