package query

import (
	"strings"

	"listingchat/internal/store"
)

// FilterRows returns the indexes of every row passing all predicates, in
// table order. An empty predicate list returns every row.
func FilterRows(s *store.Store, preds []Predicate) []int {
	cols := s.Columns()
	var out []int
	for i := 0; i < s.Len(); i++ {
		if Matches(s.Row(i), cols, preds) {
			out = append(out, i)
		}
	}
	return out
}

// BestAddressMatch finds the row whose synthesized address best matches the
// user's text. Matching is a case/punctuation-normalized substring test in
// both directions; among multiple hits the shortest address wins, since a
// short address substring-matches many longer ones.
func BestAddressMatch(s *store.Store, text string) (int, bool) {
	needle := normalizeAddress(text)
	if needle == "" {
		return 0, false
	}

	best := -1
	bestLen := 0
	for i := 0; i < s.Len(); i++ {
		addr := normalizeAddress(FormatAddress(s.Row(i)))
		if addr == "" {
			continue
		}
		if !strings.Contains(needle, addr) && !strings.Contains(addr, needle) {
			continue
		}
		if best == -1 || len(addr) < bestLen {
			best = i
			bestLen = len(addr)
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// normalizeAddress lowercases and strips everything but letters, digits, and
// single spaces.
func normalizeAddress(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
