package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askpdf/internal/domain"
)

func TestSplit_InvalidConfig(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -3, 0},
		{"negative overlap", 5, -1},
		{"overlap equals size", 5, 5},
		{"overlap exceeds size", 5, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Split("a b c", tc.size, tc.overlap)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)

			_, err = NewWordChunker(tc.size, tc.overlap)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	got, err := Split("   \n\t ", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSplit_NineWords(t *testing.T) {
	got, err := Split("the cat sat on the mat the dog ran", 5, 2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []Span{{0, 5}, {3, 8}, {6, 9}}, got)
	for i := 1; i < len(got); i++ {
		assert.Equal(t, got[i-1].Start+3, got[i].Start)
	}
	last := got[len(got)-1]
	assert.LessOrEqual(t, last.End-last.Start, 5)
}

func TestSplit_Coverage(t *testing.T) {
	for n := 1; n <= 40; n++ {
		text := strings.TrimSpace(strings.Repeat("w ", n))
		for size := 1; size <= 9; size++ {
			for overlap := 0; overlap < size; overlap++ {
				got, err := Split(text, size, overlap)
				require.NoError(t, err)
				require.NotEmpty(t, got)

				assert.Equal(t, 0, got[0].Start)
				assert.Equal(t, n, got[len(got)-1].End, "n=%d size=%d overlap=%d", n, size, overlap)
				for i := 1; i < len(got); i++ {
					prev, cur := got[i-1], got[i]
					assert.Equal(t, prev.Start+size-overlap, cur.Start)
					assert.LessOrEqual(t, cur.Start, prev.End, "gap between chunks")
					if prev.End < n {
						assert.Equal(t, size, prev.End-prev.Start)
						assert.Equal(t, overlap, prev.End-cur.Start, "n=%d size=%d overlap=%d", n, size, overlap)
					} else {
						assert.Equal(t, n, cur.End)
					}
				}
			}
		}
	}
}

func TestWordChunker_Chunk(t *testing.T) {
	c, err := NewWordChunker(4, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Size())
	assert.Equal(t, 1, c.Overlap())

	doc := domain.Document{ID: "doc", Pages: []string{"one two  three", "four\nfive six seven"}}
	chunks, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "one two three four", chunks[0].Text)
	assert.Equal(t, "four five six seven", chunks[1].Text)
	assert.Equal(t, "doc:1", chunks[1].ChunkID)
	assert.Equal(t, "doc", chunks[1].DocumentID)
	assert.Equal(t, 1, chunks[1].Index)
	assert.Equal(t, 3, chunks[1].Start)
	assert.Equal(t, 7, chunks[1].End)

	assert.Equal(t, "doc:2", chunks[2].ChunkID)
	assert.Equal(t, 6, chunks[2].Start)
	assert.Equal(t, 7, chunks[2].End)
	assert.Equal(t, "seven", chunks[2].Text)
}

func TestWordChunker_EmptyDocument(t *testing.T) {
	c, err := NewWordChunker(4, 1)
	require.NoError(t, err)
	chunks, err := c.Chunk(domain.Document{ID: "x", Pages: []string{"", "  "}})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
