package predict

import (
	"errors"
	"sort"
	"strings"
)

// ErrNoMatches reports that filtering left no records to score. It is a
// distinct signal from a successful empty computation: callers should render
// a "no matches" state rather than a zero score.
var ErrNoMatches = errors.New("no cutoff records match the requested filters")

// Selector picks the candidate subset to score out of the filtered records.
type Selector interface {
	Select(records []CutoffRecord, rank float64) []CutoffRecord
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(records []CutoffRecord, rank float64) []CutoffRecord

func (f SelectorFunc) Select(records []CutoffRecord, rank float64) []CutoffRecord {
	return f(records, rank)
}

// Window caps for the default selector. The three overlapping windows are a
// bounded preview around the candidate's rank rather than an exhaustive
// scoring of every filtered record; output size stays small regardless of
// dataset size.
const (
	windowSpan    = 200
	nearTopMax    = 10
	midMax        = 20
	nearBottomMax = 20
)

// WindowedSelector reproduces the legacy candidate windows: up to 10 records
// whose opening rank sits within 200 above the candidate, up to 20 records
// whose range contains the candidate, and up to 20 records whose closing
// rank sits within 200 below. A record appearing in several windows is kept
// once, at its first appearance.
type WindowedSelector struct{}

func (WindowedSelector) Select(records []CutoffRecord, rank float64) []CutoffRecord {
	taken := make(map[int]bool, len(records))
	out := make([]CutoffRecord, 0, nearTopMax+midMax+nearBottomMax)

	pick := func(limit int, match func(CutoffRecord) bool) {
		n := 0
		for i, rec := range records {
			if n == limit {
				break
			}
			if !match(rec) {
				continue
			}
			n++
			if taken[i] {
				continue
			}
			taken[i] = true
			out = append(out, rec)
		}
	}

	pick(nearTopMax, func(r CutoffRecord) bool {
		return r.OpeningRank >= rank-windowSpan && r.OpeningRank <= rank
	})
	pick(midMax, func(r CutoffRecord) bool {
		return r.OpeningRank <= rank && rank <= r.ClosingRank
	})
	pick(nearBottomMax, func(r CutoffRecord) bool {
		return r.ClosingRank >= rank && r.ClosingRank <= rank+windowSpan
	})
	return out
}

// SelectAll scores every filtered record. Swap it in via WithSelector when
// the bounded preview is not wanted.
var SelectAll = SelectorFunc(func(records []CutoffRecord, _ float64) []CutoffRecord {
	return records
})

// Builder turns a record set plus candidate parameters into a Shortlist.
// Stateless and safe for concurrent use.
type Builder struct {
	selector Selector
}

// Option configures a Builder.
type Option func(*Builder)

// WithSelector replaces the default windowed candidate selection.
func WithSelector(s Selector) Option { return func(b *Builder) { b.selector = s } }

// NewBuilder returns a Builder with the legacy windowed selector.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{selector: WindowedSelector{}}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build filters, selects, scores, thresholds, sorts and numbers the records
// for one candidate. It returns ErrNoMatches when the filters (or the
// min-probability threshold) leave nothing to rank; any other input,
// however malformed, produces a result rather than a panic.
func (b *Builder) Build(records []CutoffRecord, rank float64, f Filter) (Shortlist, error) {
	category := strings.ToLower(f.Category)
	branch := strings.ToLower(f.Branch)
	collegeType := strings.ToUpper(f.CollegeType)

	filtered := make([]CutoffRecord, 0, len(records))
	for _, rec := range records {
		if category != "all" && strings.ToLower(rec.Category) != category {
			continue
		}
		if collegeType != "ALL" && strings.ToUpper(rec.CollegeType) != collegeType {
			continue
		}
		if branch != "all" && strings.ToLower(rec.Branch) != branch {
			continue
		}
		if rec.Round != f.Round {
			continue
		}
		filtered = append(filtered, rec)
	}
	if len(filtered) == 0 {
		return Shortlist{}, ErrNoMatches
	}

	candidates := b.selector.Select(filtered, rank)

	scored := make([]ScoredRecord, 0, len(candidates))
	for _, rec := range candidates {
		p := Probability(rank, rec.OpeningRank, rec.ClosingRank)
		if p < f.MinProbability {
			continue
		}
		scored = append(scored, ScoredRecord{
			CutoffRecord:         rec,
			AdmissionProbability: p,
			AdmissionChances:     Interpret(p),
		})
	}
	if len(scored) == 0 {
		return Shortlist{}, ErrNoMatches
	}

	// Stable: equal probabilities keep their selection order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].AdmissionProbability > scored[j].AdmissionProbability
	})
	for i := range scored {
		scored[i].Preference = i + 1
	}

	return Shortlist{Preferences: scored, Distribution: distribution(scored)}, nil
}

// BuildShortlist runs Build with the default windowed selector.
func BuildShortlist(records []CutoffRecord, rank float64, f Filter) (Shortlist, error) {
	return NewBuilder().Build(records, rank, f)
}

// distribution buckets probabilities into HistogramBins equal-width bins
// over [0,100], keyed by bucket lower bound. 100.0 lands in the top bucket.
func distribution(scored []ScoredRecord) Histogram {
	width := 100 / HistogramBins
	h := make(Histogram, HistogramBins)
	for _, s := range scored {
		bucket := int(s.AdmissionProbability) / width * width
		if bucket >= 100 {
			bucket = 100 - width
		}
		if bucket < 0 {
			bucket = 0
		}
		h[bucket]++
	}
	return h
}
