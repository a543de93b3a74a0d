package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/five82/stickerpicker/internal/packs"
)

// Filter returns the packs whose stickers match query, keeping pack and
// sticker order. Packs left without stickers are omitted. A blank query
// returns list unchanged.
func Filter(list []packs.Pack, query string) []packs.Pack {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]packs.Pack, 0, len(list))
	for _, p := range list {
		var kept []packs.Sticker
		for _, s := range p.Stickers {
			if Match(q, s.Body) {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			continue
		}
		p.Stickers = kept
		out = append(out, p)
	}
	return out
}

// Match reports whether text contains query or has a word within a small
// edit distance of it. query must already be lower case.
func Match(query, text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, query) {
		return true
	}
	budget := maxTypos(query)
	if budget == 0 {
		return false
	}
	for _, word := range strings.Fields(lower) {
		if levenshtein.ComputeDistance(query, word) <= budget {
			return true
		}
	}
	return false
}

// maxTypos allows one edit per four runes; short queries must match exactly.
func maxTypos(query string) int {
	return len([]rune(query)) / 4
}
