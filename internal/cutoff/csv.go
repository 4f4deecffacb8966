package cutoff

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jarawa/josaa-predictor/internal/predict"
)

// Column headers of the published JoSAA cutoff CSV.
var requiredColumns = []string{
	"Institute",
	"College Type",
	"Location",
	"Academic Program Name",
	"Category",
	"Opening Rank",
	"Closing Rank",
	"Round",
}

// ParseCSV decodes cutoff records from the published CSV layout. Column
// order is taken from the header row; a missing required column fails the
// whole parse. Blank or unparseable rank cells default to the sentinel so
// the record stays in the set as effectively unreachable.
func ParseCSV(r io.Reader) ([]predict.CutoffRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv missing columns: %s", strings.Join(missing, ", "))
	}

	var out []predict.CutoffRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		cell := func(name string) string {
			i := idx[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		out = append(out, predict.CutoffRecord{
			Institute:   cell("Institute"),
			CollegeType: strings.ToUpper(cell("College Type")),
			Location:    cell("Location"),
			Branch:      cell("Academic Program Name"),
			Category:    cell("Category"),
			OpeningRank: parseRank(cell("Opening Rank")),
			ClosingRank: parseRank(cell("Closing Rank")),
			Round:       cell("Round"),
		})
	}
	return out, nil
}

// parseRank mirrors the legacy preprocessing: to_numeric with
// fillna(9999999). Preparatory ranks like "123P" also fall to the sentinel.
func parseRank(s string) float64 {
	if s == "" {
		return predict.RankSentinel
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return predict.RankSentinel
	}
	return v
}
