package predict

// RankSentinel stands in for a missing or unparseable opening/closing rank.
// A seat with this rank is effectively unreachable for any real candidate.
const RankSentinel = 9999999

// CutoffRecord is one historical seat-allotment cutoff row: the rank range
// that received an offer for an institute/branch/category in a counselling
// round. Records are loaded once per request and never mutated by scoring.
type CutoffRecord struct {
	Institute   string  `json:"institute"`
	CollegeType string  `json:"college_type"` // IIT | NIT | IIIT | GFTI
	Location    string  `json:"location"`
	Branch      string  `json:"branch"`
	Category    string  `json:"category"`
	OpeningRank float64 `json:"opening_rank"`
	ClosingRank float64 `json:"closing_rank"`
	Round       string  `json:"round"` // "1".."6"
}

// ScoredRecord is a CutoffRecord with its admission estimate attached.
type ScoredRecord struct {
	CutoffRecord
	AdmissionProbability float64 `json:"admission_probability"` // [0,100], 2dp
	AdmissionChances     string  `json:"admission_chances"`
	Preference           int     `json:"preference"` // 1-based, assigned after sorting
}

// Filter narrows the record set before scoring. Category and Branch compare
// case-insensitively; CollegeType is uppercased; "all"/"ALL" skip the
// respective comparison. Round is always matched exactly as a string.
type Filter struct {
	Category       string
	CollegeType    string
	Branch         string
	Round          string
	MinProbability float64
}

// HistogramBins is the fixed bin count of the probability distribution
// summary: 20 equal-width buckets over [0,100].
const HistogramBins = 20

// Histogram counts scored records per probability bucket, keyed by the
// bucket's lower bound (0, 5, 10, ... 95). Meant for visualization only.
type Histogram map[int]int

// Shortlist is the ordered result of a prediction: records sorted by
// probability descending with 1-based preferences, plus the distribution
// summary over their scores.
type Shortlist struct {
	Preferences  []ScoredRecord `json:"preferences"`
	Distribution Histogram      `json:"distribution"`
}
