package predict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbabilityBounds(t *testing.T) {
	cases := []struct {
		name                   string
		rank, opening, closing float64
	}{
		{"inside range", 5000, 4800, 5200},
		{"better than opening", 100, 4800, 5200},
		{"far better than opening", 1, 4800, 5200},
		{"at opening", 4800, 4800, 5200},
		{"at closing", 5200, 4800, 5200},
		{"just past closing", 5205, 4800, 5200},
		{"far past closing", 99999, 4800, 5200},
		{"degenerate equal range", 4800, 4800, 4800},
		{"inverted range", 5000, 5200, 4800},
		{"zero opening", -5, 0, 100},
		{"zero rank", 0, 4800, 5200},
		{"negative rank", -100, 4800, 5200},
		{"sentinel ranks", 5000, RankSentinel, RankSentinel},
		{"nan rank", math.NaN(), 4800, 5200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Probability(tc.rank, tc.opening, tc.closing)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 100.0)
		})
	}
}

func TestProbabilityAtOpeningRank(t *testing.T) {
	// Fixed point at rank == opening: 0.7*logistic + 0.3*95 with
	// M=1500, S=100, so logistic = 100/(1+e^-5).
	p := Probability(1000, 1000, 2000)
	logistic := 100 / (1 + math.Exp(-5))
	want := math.Round((0.7*logistic+0.3*95.0)*100) / 100
	require.Equal(t, want, p)
	require.Equal(t, 98.03, p)
}

func TestProbabilityFarPastClosingIsZero(t *testing.T) {
	require.Equal(t, 0.0, Probability(2101, 1000, 2000))
	require.Equal(t, 0.0, Probability(1e9, 1000, 2000))
}

func TestProbabilityJustPastClosingCapped(t *testing.T) {
	// Within closing+100 the result is min(logistic, 5).
	p := Probability(2050, 1000, 2000)
	assert.Greater(t, p, 0.0)
	assert.LessOrEqual(t, p, 5.0)
}

func TestProbabilityMidRangeScenario(t *testing.T) {
	// position = (5000-4800)/400 = 0.5 -> piecewise 60; logistic at the
	// midpoint is exactly 50; blend 0.7*50 + 0.3*60 = 53.
	require.Equal(t, 53.0, Probability(5000, 4800, 5200))
}

func TestProbabilityNonIncreasingAcrossPositionBuckets(t *testing.T) {
	const opening, closing = 1000.0, 2000.0
	// Ranks at the position bucket boundaries 0.1..0.9. Plateaus are
	// allowed, strict monotonicity is not guaranteed.
	positions := []float64{0.1, 0.2, 0.35, 0.5, 0.65, 0.8, 0.9}
	prev := 101.0
	for _, pos := range positions {
		rank := opening + pos*(closing-opening)
		p := Probability(rank, opening, closing)
		assert.LessOrEqualf(t, p, prev, "position %v", pos)
		prev = p
	}
}

func TestProbabilityZeroOpeningFallsBack(t *testing.T) {
	// rank < opening with opening == 0 would divide by zero; the guarded
	// fallback is 0.0.
	require.Equal(t, 0.0, Probability(-10, 0, 100))
}

func TestProbabilityDegenerateRange(t *testing.T) {
	// opening == closing forces spread to 1; at the shared rank the blend
	// is 0.7*50 + 0.3*95 = 63.5.
	require.Equal(t, 63.5, Probability(500, 500, 500))
}

func TestInterpret(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{100, ChanceVeryHigh},
		{95.0, ChanceVeryHigh},
		{94.99, ChanceHigh},
		{80, ChanceHigh},
		{79.99, ChanceModerate},
		{60, ChanceModerate},
		{59.99, ChanceLow},
		{40, ChanceLow},
		{39.99, ChanceVeryLow},
		{0.01, ChanceVeryLow},
		{0.0, ChanceNone},
		{-1, ChanceNone},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, Interpret(tc.p), "interpret(%v)", tc.p)
	}
}
