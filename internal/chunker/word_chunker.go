package chunker

import (
	"fmt"
	"strconv"
	"strings"

	"askpdf/internal/domain"
)

// Span is a half-open word range [Start, End) of a tokenized text.
type Span struct {
	Start int
	End   int
}

// Split computes the overlapping word windows for text. Windows start at
// multiples of size-overlap; the last one may be shorter than size.
func Split(text string, size, overlap int) ([]Span, error) {
	if err := validate(size, overlap); err != nil {
		return nil, err
	}
	return spans(len(strings.Fields(text)), size, overlap), nil
}

func validate(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidConfig, size, overlap)
	}
	return nil
}

func spans(n, size, overlap int) []Span {
	step := size - overlap
	out := make([]Span, 0, n/step+1)
	for start := 0; start < n; start += step {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, Span{Start: start, End: end})
	}
	return out
}

// WordChunker splits a document into fixed-size word windows with overlap.
type WordChunker struct {
	size    int
	overlap int
}

// NewWordChunker validates the window parameters and returns a chunker.
func NewWordChunker(size, overlap int) (*WordChunker, error) {
	if err := validate(size, overlap); err != nil {
		return nil, err
	}
	return &WordChunker{size: size, overlap: overlap}, nil
}

// Size returns the number of words per chunk.
func (c *WordChunker) Size() int { return c.size }

// Overlap returns the number of words shared by consecutive chunks.
func (c *WordChunker) Overlap() int { return c.overlap }

func (c *WordChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	words := strings.Fields(document.Text())
	if len(words) == 0 {
		return nil, nil
	}
	ranges := spans(len(words), c.size, c.overlap)
	chunks := make([]domain.Chunk, 0, len(ranges))
	for idx, r := range ranges {
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Index:      idx,
			Start:      r.Start,
			End:        r.End,
			Text:       strings.Join(words[r.Start:r.End], " "),
		})
	}
	return chunks, nil
}
