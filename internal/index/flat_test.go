package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

func TestFlat_Build_RecordsDimension(t *testing.T) {
	idx := NewFlat()

	err := idx.Build([][]float32{{1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 3, idx.Dimension())
}

func TestFlat_Build_DimensionMismatch(t *testing.T) {
	idx := NewFlat()

	err := idx.Build([][]float32{{1, 0, 0}, {0, 1}})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeDimensionMismatch, domain.ErrorCode(err))

	// Failed build must not leave partial contents behind.
	assert.Equal(t, 0, idx.Len())
}

func TestFlat_Build_Replaces(t *testing.T) {
	idx := NewFlat()

	require.NoError(t, idx.Build([][]float32{{1, 0}, {0, 1}, {1, 1}}))
	require.NoError(t, idx.Build([][]float32{{0, 0, 1}}))

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 3, idx.Dimension())
}

func TestFlat_Search_RoundTrip(t *testing.T) {
	idx := NewFlat()
	require.NoError(t, idx.Build([][]float32{
		{1, 0, 0},
		{0, 3, 4}, // not unit length on purpose
		{0, 0, 2},
	}))

	// Querying with a stored vector must return its own row first with
	// score ~1.0.
	results := idx.Search([]float32{0, 3, 4}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Row)
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-6)
}

func TestFlat_Search_OrderAndTies(t *testing.T) {
	idx := NewFlat()
	require.NoError(t, idx.Build([][]float32{
		{0, 1}, // orthogonal to query, score 0
		{1, 0}, // score 1
		{1, 0}, // score 1, tie broken by row
	}))

	results := idx.Search([]float32{1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Row)
	assert.Equal(t, 2, results[1].Row)
	assert.Equal(t, 0, results[2].Row)
	assert.True(t, results[0].Score >= results[1].Score)
	assert.True(t, results[1].Score >= results[2].Score)
}

func TestFlat_Search_ClampsK(t *testing.T) {
	idx := NewFlat()
	require.NoError(t, idx.Build([][]float32{{1, 0}, {0, 1}}))

	assert.Len(t, idx.Search([]float32{1, 0}, 100), 2)
	assert.Len(t, idx.Search([]float32{1, 0}, 1), 1)
	assert.Empty(t, idx.Search([]float32{1, 0}, 0))
}

func TestFlat_Search_Empty(t *testing.T) {
	idx := NewFlat()
	require.NoError(t, idx.Build(nil))

	assert.Empty(t, idx.Search([]float32{1, 0}, 5))
}

func TestFlat_Search_ScoresWithinUnitRange(t *testing.T) {
	idx := NewFlat()
	require.NoError(t, idx.Build([][]float32{
		{1, 2, 3},
		{-4, 5, -6},
		{0.5, -0.25, 0.125},
	}))

	for _, r := range idx.Search([]float32{7, -8, 9}, 3) {
		assert.LessOrEqual(t, float64(r.Score), 1.0+1e-6)
		assert.GreaterOrEqual(t, float64(r.Score), -1.0-1e-6)
	}
}
