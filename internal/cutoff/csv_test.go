package cutoff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarawa/josaa-predictor/internal/predict"
)

const sampleCSV = `Institute,College Type,Location,Academic Program Name,Category,Opening Rank,Closing Rank,Round
"National Institute of Technology, Tiruchirappalli",nit,Tamil Nadu,Computer Science and Engineering,OPEN,4800,5200,1
Indian Institute of Technology Bombay,IIT,Maharashtra,Computer Science and Engineering,OPEN,1,66,1
Indian Institute of Technology Bombay,IIT,Maharashtra,Computer Science and Engineering,OPEN,,52P,2
`

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "National Institute of Technology, Tiruchirappalli", first.Institute)
	assert.Equal(t, "NIT", first.CollegeType) // uppercased on input
	assert.Equal(t, "Computer Science and Engineering", first.Branch)
	assert.Equal(t, 4800.0, first.OpeningRank)
	assert.Equal(t, 5200.0, first.ClosingRank)
	assert.Equal(t, "1", first.Round)

	// Blank and non-numeric ranks fall to the sentinel.
	third := records[2]
	assert.Equal(t, float64(predict.RankSentinel), third.OpeningRank)
	assert.Equal(t, float64(predict.RankSentinel), third.ClosingRank)
	assert.Equal(t, "2", third.Round)
}

func TestParseCSVMissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Institute,Round\nIIT Bombay,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "Opening Rank")
}

func TestParseCSVReorderedColumns(t *testing.T) {
	csv := `Round,Closing Rank,Opening Rank,Category,Academic Program Name,Location,College Type,Institute
3,900,700,EWS,Electrical Engineering,Delhi,IIT,IIT Delhi
`
	records, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "IIT Delhi", records[0].Institute)
	assert.Equal(t, 700.0, records[0].OpeningRank)
	assert.Equal(t, 900.0, records[0].ClosingRank)
	assert.Equal(t, "3", records[0].Round)
}

func TestBranchList(t *testing.T) {
	records := []predict.CutoffRecord{
		{Branch: "Mechanical Engineering"},
		{Branch: "Computer Science and Engineering"},
		{Branch: "Mechanical Engineering"},
		{Branch: ""},
	}
	assert.Equal(t, []string{
		"All",
		"Computer Science and Engineering",
		"Mechanical Engineering",
	}, BranchList(records))
}
