package scanner

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// PathID derives the stable identifier for a path. The same path always
// yields the same id across runs, which is the basis for duplicate
// detection and for course identity surviving rescans.
func PathID(path string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(path))
}
