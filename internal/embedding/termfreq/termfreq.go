// Package termfreq implements the sparse raw term-count vectorizer.
package termfreq

import (
	"askpdf/internal/domain"
	"askpdf/internal/embedding"
	"askpdf/internal/embedding/stopwords"
)

// Embedder counts token occurrences per text. It needs no corpus statistics.
type Embedder struct {
	stopwords stopwords.Set
}

// NewEmbedder creates a term-frequency vectorizer. A nil set disables
// stop-word exclusion.
func NewEmbedder(stop stopwords.Set) *Embedder {
	return &Embedder{stopwords: stop}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "term-frequency" }

// Fork returns e; raw counts carry no fit state.
func (e *Embedder) Fork() embedding.Vectorizer { return e }

// Fit is a no-op; raw counts do not depend on the corpus.
func (e *Embedder) Fit(corpus []string) error { return nil }

// Encode returns the term-count vector of text.
func (e *Embedder) Encode(text string) (domain.Vector, error) {
	terms := make(map[string]float64)
	for _, tok := range embedding.Tokenize(text) {
		if e.stopwords.Contains(tok) {
			continue
		}
		terms[tok]++
	}
	return domain.Vector{Terms: terms}, nil
}

// EncodeAll encodes each text in order.
func (e *Embedder) EncodeAll(texts []string) ([]domain.Vector, error) {
	out := make([]domain.Vector, len(texts))
	for i, t := range texts {
		v, err := e.Encode(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
