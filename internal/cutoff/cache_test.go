package cutoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarawa/josaa-predictor/internal/predict"
)

type fakeSource struct {
	records []predict.CutoffRecord
	err     error
	calls   int
}

func (f *fakeSource) Records(context.Context) ([]predict.CutoffRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeSource) Branches(ctx context.Context) ([]string, error) {
	records, err := f.Records(ctx)
	if err != nil {
		return nil, err
	}
	return BranchList(records), nil
}

func TestCacheServesSnapshotWithinTTL(t *testing.T) {
	src := &fakeSource{records: []predict.CutoffRecord{{Institute: "IIT Bombay"}}}
	c := NewCache(src, time.Hour)

	for i := 0; i < 3; i++ {
		got, err := c.Records(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, 1, src.calls)
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	src := &fakeSource{records: []predict.CutoffRecord{{Institute: "IIT Bombay"}}}
	c := NewCache(src, time.Minute)

	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	_, err := c.Records(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCacheServesStaleOnRefreshFailure(t *testing.T) {
	src := &fakeSource{records: []predict.CutoffRecord{{Institute: "IIT Bombay"}}}
	c := NewCache(src, time.Minute)
	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	_, err := c.Records(context.Background())
	require.NoError(t, err)

	src.err = errors.New("network down")
	now = now.Add(2 * time.Minute)
	got, err := c.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestCacheFirstLoadFailure(t *testing.T) {
	src := &fakeSource{err: ErrUnavailable}
	c := NewCache(src, time.Minute)

	_, err := c.Records(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCacheInvalidate(t *testing.T) {
	src := &fakeSource{records: []predict.CutoffRecord{{Institute: "IIT Bombay"}}}
	c := NewCache(src, 0) // no TTL: cache forever

	_, err := c.Records(context.Background())
	require.NoError(t, err)
	_, err = c.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	c.Invalidate()
	_, err = c.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}
