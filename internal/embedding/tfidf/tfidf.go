package tfidf

import (
	"errors"
	"math"

	"askpdf/internal/domain"
	"askpdf/internal/embedding"
	"askpdf/internal/embedding/stopwords"
)

// Embedder implements a sparse TF-IDF vectorizer.
// It builds a vocabulary from the corpus and computes IDF values once.
type Embedder struct {
	idf       map[string]float64
	prepared  bool
	stopwords stopwords.Set
}

// NewEmbedder creates an unfitted TF-IDF embedder. A nil set disables
// stop-word exclusion.
func NewEmbedder(stop stopwords.Set) *Embedder {
	return &Embedder{stopwords: stop}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Fork returns an unfitted embedder with the same stop words.
func (e *Embedder) Fork() embedding.Vectorizer { return NewEmbedder(e.stopwords) }

// Fit builds the vocabulary and IDF values from the provided corpus,
// replacing any previous statistics.
func (e *Embedder) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	n := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		// Smoothed IDF
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1.0
	}
	e.idf = idf
	e.prepared = true
	return nil
}

// Fitted reports whether corpus statistics are available.
func (e *Embedder) Fitted() bool { return e.prepared }

// VocabularySize returns the number of distinct terms seen during Fit.
func (e *Embedder) VocabularySize() int { return len(e.idf) }

// Encode computes the TF-IDF vector for text. Terms outside the fitted
// vocabulary are ignored.
func (e *Embedder) Encode(text string) (domain.Vector, error) {
	if !e.prepared {
		return domain.Vector{}, errors.New("tfidf embedder not fitted")
	}
	tf := make(map[string]float64)
	for _, tok := range e.tokenize(text) {
		if _, ok := e.idf[tok]; ok {
			tf[tok]++
		}
	}
	for term, count := range tf {
		tf[term] = count * e.idf[term]
	}
	return domain.Vector{Terms: tf}, nil
}

// EncodeAll encodes each text against the fitted statistics.
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

func (e *Embedder) tokenize(text string) []string {
	raw := embedding.Tokenize(text)
	out := raw[:0]
	for _, t := range raw {
		if e.stopwords.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
