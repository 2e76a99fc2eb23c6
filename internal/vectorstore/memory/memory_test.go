package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askpdf/internal/domain"
)

func chunk(i int, text string) domain.Chunk {
	return domain.Chunk{Index: i, Text: text}
}

func vec(kv map[string]float64) domain.Vector { return domain.Vector{Terms: kv} }

func TestReplace_LengthMismatch(t *testing.T) {
	s := NewStorage()
	err := s.Replace([]domain.Chunk{chunk(0, "a")}, nil)
	assert.Error(t, err)
	assert.Zero(t, s.Len())
}

func TestSearch_RanksAndTruncates(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Replace(
		[]domain.Chunk{chunk(0, "a"), chunk(1, "b"), chunk(2, "ab")},
		[]domain.Vector{
			vec(map[string]float64{"a": 1}),
			vec(map[string]float64{"b": 1}),
			vec(map[string]float64{"a": 1, "b": 1}),
		},
	))
	assert.Equal(t, 3, s.Len())

	res, err := s.Search(vec(map[string]float64{"a": 1}), 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 0, res[0].Chunk.Index)
	assert.InDelta(t, 1.0, res[0].Score, 1e-9)
	assert.Equal(t, 2, res[1].Chunk.Index)

	res, err = s.Search(vec(map[string]float64{"a": 1}), 10)
	require.NoError(t, err)
	assert.Len(t, res, 3)
}

func TestSearch_InvalidTopK(t *testing.T) {
	_, err := NewStorage().Search(vec(nil), 0)
	assert.Error(t, err)
}

func TestReplaceDiscardsPrevious(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Replace([]domain.Chunk{chunk(0, "old")}, []domain.Vector{vec(map[string]float64{"old": 1})}))
	require.NoError(t, s.Replace([]domain.Chunk{chunk(0, "new"), chunk(1, "newer")}, []domain.Vector{vec(nil), vec(nil)}))
	res, err := s.Search(vec(map[string]float64{"old": 1}), 5)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "new", res[0].Chunk.Text)
	assert.Zero(t, res[0].Score)

	require.NoError(t, s.Clear())
	assert.Zero(t, s.Len())
	res, err = s.Search(vec(nil), 1)
	require.NoError(t, err)
	assert.Empty(t, res)
}
