package scanner

import (
	"regexp"
	"strconv"
	"strings"
)

// Compare orders two raw names by their extracted order keys: primary
// numerically, ties broken by a numeric-aware, case-insensitive comparison
// of the original names. The result is a strict total order, so repeated
// scans of an unchanged folder always produce the same listing.
func Compare(a, b string) int {
	ka, kb := ExtractOrder(a), ExtractOrder(b)
	if ka.Primary != kb.Primary {
		if ka.Primary < kb.Primary {
			return -1
		}
		return 1
	}
	if c := naturalCompare(ka.Secondary, kb.Secondary); c != 0 {
		return c
	}
	// Case-folded equal names still need a stable order.
	return strings.Compare(a, b)
}

// Less is the sort.Slice form of Compare.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

var chunker = regexp.MustCompile(`(\d+)|\D+`)

// naturalCompare compares alternating digit and non-digit chunks so that
// "2" sorts before "10" while letters compare case-insensitively.
func naturalCompare(a, b string) int {
	chunksA := chunker.FindAllString(a, -1)
	chunksB := chunker.FindAllString(b, -1)

	for i := 0; i < len(chunksA) && i < len(chunksB); i++ {
		ca, cb := chunksA[i], chunksB[i]

		na, errA := strconv.ParseInt(ca, 10, 64)
		nb, errB := strconv.ParseInt(cb, 10, 64)
		if errA == nil && errB == nil {
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}

		la, lb := strings.ToLower(ca), strings.ToLower(cb)
		if la != lb {
			return strings.Compare(la, lb)
		}
	}

	switch {
	case len(chunksA) < len(chunksB):
		return -1
	case len(chunksA) > len(chunksB):
		return 1
	default:
		return 0
	}
}
