// Package cutoff supplies historical JoSAA cutoff records to the scoring
// engine. Sources are explicit and injectable: an HTTP source fetching the
// published CSV, a SQL-backed store, and a TTL cache that can wrap either.
package cutoff

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jarawa/josaa-predictor/internal/predict"
)

// ErrUnavailable reports that the record source could not be loaded or
// parsed into the expected shape.
var ErrUnavailable = errors.New("cutoff data unavailable")

// Source produces the cutoff record snapshot a prediction runs against.
type Source interface {
	Records(ctx context.Context) ([]predict.CutoffRecord, error)
	Branches(ctx context.Context) ([]string, error)
}

// BranchList derives the sorted unique branch names from a record set,
// with the "All" wildcard first.
func BranchList(records []predict.CutoffRecord) []string {
	seen := map[string]bool{}
	var names []string
	for _, r := range records {
		key := strings.TrimSpace(r.Branch)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, key)
	}
	sort.Strings(names)
	return append([]string{"All"}, names...)
}
