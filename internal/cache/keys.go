package cache

import (
	"sort"
	"strconv"
	"strings"
)

// Key derives a cache key from an operation name, its year arguments,
// and its sector/source sets. The sets are sorted before joining, so two
// semantically identical queries issued with differently ordered
// collections always land on the same cache line. This is a contract,
// not a convenience: reordering the inputs must never change the key.
func Key(op string, years []int, sectors, sources []string) string {
	var b strings.Builder
	b.WriteString(op)

	b.WriteString("|y=")
	for i, y := range years {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(y))
	}

	b.WriteString("|sec=")
	b.WriteString(joinSorted(sectors))
	b.WriteString("|src=")
	b.WriteString(joinSorted(sources))
	return b.String()
}

func joinSorted(parts []string) string {
	sorted := make([]string, len(parts))
	copy(sorted, parts)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
