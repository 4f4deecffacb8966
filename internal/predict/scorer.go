package predict

import "math"

// Chance labels returned by Interpret.
const (
	ChanceVeryHigh = "Very High Chance"
	ChanceHigh     = "High Chance"
	ChanceModerate = "Moderate Chance"
	ChanceLow      = "Low Chance"
	ChanceVeryLow  = "Very Low Chance"
	ChanceNone     = "No Chance"
)

// fallbackProbability is returned whenever the calculation degenerates
// (zero opening rank, non-finite intermediates).
const fallbackProbability = 0.0

// Probability estimates the admission chance in [0,100] for a candidate
// rank against one historical cutoff range. It blends a logistic curve
// centered on the range midpoint with a piecewise-linear model of the
// candidate's position inside the range; the blend weights depend on which
// side of the range the rank falls.
//
// The constants are hand-tuned and deliberately duplicated between the
// piecewise stage and the blend stage: prior tool output depends on the
// exact values, so they are kept literal rather than factored.
// Deterministic, no side effects, never panics.
func Probability(rank, opening, closing float64) float64 {
	mid := (opening + closing) / 2
	spread := (closing - opening) / 10
	if spread == 0 {
		// degenerate range, opening == closing
		spread = 1
	}
	logistic := 100 / (1 + math.Exp((rank-mid)/spread))

	var piecewise float64
	switch {
	case rank < opening:
		if opening == 0 {
			return fallbackProbability
		}
		improvement := (opening - rank) / opening
		if improvement >= 0.5 {
			piecewise = 99.0
		} else {
			piecewise = 96 + improvement*6
		}
	case rank == opening:
		piecewise = 95.0
	case rank < closing:
		// width > 0 here since opening < rank < closing
		position := (rank - opening) / (closing - opening)
		switch {
		case position <= 0.2:
			piecewise = 94 - position*70
		case position <= 0.5:
			piecewise = 80 - (position-0.2)/0.3*20
		case position <= 0.8:
			piecewise = 60 - (position-0.5)/0.3*20
		default:
			piecewise = 40 - (position-0.8)/0.2*20
		}
	case rank == closing:
		piecewise = 15.0
	case rank <= closing+10:
		piecewise = 5.0
	default:
		piecewise = 0.0
	}

	var final float64
	switch {
	case rank < opening:
		improvement := (opening - rank) / opening
		if improvement > 0.5 {
			final = math.Max(logistic, 95)
		} else {
			final = logistic*0.4 + piecewise*0.6
		}
	case rank <= closing:
		final = logistic*0.7 + piecewise*0.3
	default:
		if rank > closing+100 {
			final = 0.0
		} else {
			final = math.Min(logistic, 5)
		}
	}

	if math.IsNaN(final) || math.IsInf(final, 0) {
		return fallbackProbability
	}
	return math.Round(final*100) / 100
}

// Interpret maps a probability to its confidence band, highest band first.
// The thresholds were tuned independently from Probability's special-cased
// outputs (95.0, 99.0, 15.0, 5.0) and are not reconciled with them.
func Interpret(probability float64) string {
	switch {
	case probability >= 95:
		return ChanceVeryHigh
	case probability >= 80:
		return ChanceHigh
	case probability >= 60:
		return ChanceModerate
	case probability >= 40:
		return ChanceLow
	case probability > 0:
		return ChanceVeryLow
	default:
		return ChanceNone
	}
}
