package keys

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key builds the cache key for one context category over a covering cell
// set. The cell list must already be sorted; the digest keeps keys short
// while staying collision-resistant for practical extents.
func Key(category string, res int, cells []string) string {
	cat := sanitize(strings.TrimSpace(category))
	sum := xxhash.Sum64String(strings.Join(cells, ","))
	return fmt.Sprintf("ctx:%s:r%d:n%d:h=%016x", cat, res, len(cells), sum)
}

func sanitize(s string) string {
	if s == "" {
		return "unknown"
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-':
			out = r
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}
