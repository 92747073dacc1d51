package scanner

import (
	"math"
	"regexp"
	"strconv"
)

// OrderUnnumbered is the primary key assigned to names without any number.
// It sorts after every numbered item.
const OrderUnnumbered = int64(math.MaxInt64)

// OrderKey is the sortable key extracted from a raw name: a numeric
// primary and the original name as lexical tie-breaker.
type OrderKey struct {
	Primary   int64
	Secondary string
}

var (
	leadingNumberRx = regexp.MustCompile(`^[\[\(]?(\d+)[\]\)]?[\s._-]*`)
	keywordNumberRx = regexp.MustCompile(`(?i)^(?:lesson|chapter|part|section|module|unit|video|lecture)\s*(\d+)`)
	anyNumberRx     = regexp.MustCompile(`(\d+)`)
)

// orderMatchers is the priority cascade for finding the ordering number in
// a name. The order is a deliberate, tested contract: ambiguous names must
// resolve the same way every time. First match wins.
var orderMatchers = []func(string) (int64, bool){
	matchRx(leadingNumberRx),
	matchRx(keywordNumberRx),
	matchRx(anyNumberRx),
}

// ExtractOrder parses a raw file or folder name into its natural ordering
// key. The parse is heuristic and lossy on purpose: "Video 2" and
// "Part 2" share the same primary and fall back to the lexical tie-break.
func ExtractOrder(name string) OrderKey {
	key := OrderKey{Primary: OrderUnnumbered, Secondary: name}
	for _, match := range orderMatchers {
		if n, ok := match(name); ok {
			key.Primary = n
			break
		}
	}
	return key
}

func matchRx(rx *regexp.Regexp) func(string) (int64, bool) {
	return func(name string) (int64, bool) {
		m := rx.FindStringSubmatch(name)
		if m == nil {
			return 0, false
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			// Digit run too long for int64; let the next matcher try.
			return 0, false
		}
		return n, true
	}
}
