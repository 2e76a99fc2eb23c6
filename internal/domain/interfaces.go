package domain

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrInvalidConfig reports a bad chunk size, overlap or other setting.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrEmptyDocument reports a document that produced no chunks.
	ErrEmptyDocument = errors.New("document has no extractable text")
	// ErrNoDocumentLoaded reports a query issued before any document was loaded.
	ErrNoDocumentLoaded = errors.New("no document loaded")
)

// Document is the resident document: an ordered sequence of page texts.
type Document struct {
	ID     string
	Source string
	Pages  []string
}

// Text joins the pages with a single space.
func (d Document) Text() string {
	return strings.Join(d.Pages, " ")
}

// Chunk is a contiguous word window [Start, End) of a document.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Index      int
	Start      int
	End        int
	Text       string
}

// Vector is either sparse (Terms) or dense (Dense). Exactly one is set
// for a non-empty vector; the zero Vector has norm 0.
type Vector struct {
	Terms map[string]float64
	Dense []float64
}

// IsSparse reports whether the vector uses the term representation.
func (v Vector) IsSparse() bool { return v.Dense == nil }

// Norm returns the L2 norm over all nonzero entries.
func (v Vector) Norm() float64 {
	sum := 0.0
	if v.Dense != nil {
		for _, x := range v.Dense {
			sum += x * x
		}
	} else {
		for _, x := range v.Terms {
			sum += x * x
		}
	}
	return math.Sqrt(sum)
}

// Match is a retrieved chunk with its similarity score.
type Match struct {
	Chunk Chunk
	Score float64
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}
