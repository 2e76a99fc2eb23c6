// Package dense adapts a batch embedding model to the Vectorizer contract.
package dense

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"askpdf/internal/domain"
	"askpdf/internal/embedding"
)

// BatchEncoder maps a batch of strings to fixed-dimension float vectors.
// Implementations own their model and must be initialized by the caller
// before use.
type BatchEncoder interface {
	Name() string
	Dimension() int
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder delegates encoding to a BatchEncoder.
type Embedder struct {
	encoder BatchEncoder
	timeout time.Duration
}

// NewEmbedder wraps an already constructed encoder. A zero timeout means
// no deadline beyond the encoder's own.
func NewEmbedder(encoder BatchEncoder, timeout time.Duration) *Embedder {
	return &Embedder{encoder: encoder, timeout: timeout}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "dense-embedding/" + e.encoder.Name() }

// Fit is a no-op; the model carries no corpus statistics.
func (e *Embedder) Fit(corpus []string) error { return nil }

// Fork returns e; the encoder is stateless between loads.
func (e *Embedder) Fork() embedding.Vectorizer { return e }

// Encode embeds a single text, typically the query.
func (e *Embedder) Encode(text string) (domain.Vector, error) {
	out, err := e.EncodeAll([]string{text})
	if err != nil {
		return domain.Vector{}, err
	}
	return out[0], nil
}

// EncodeAll embeds every non-empty text in one encoder call. Blank texts
// become zero vectors without reaching the encoder.
func (e *Embedder) EncodeAll(texts []string) ([]domain.Vector, error) {
	dim := e.encoder.Dimension()
	if dim <= 0 {
		return nil, errors.New("dense encoder not initialized")
	}
	out := make([]domain.Vector, len(texts))
	var batch []string
	var positions []int
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			out[i] = domain.Vector{Dense: make([]float64, dim)}
			continue
		}
		batch = append(batch, t)
		positions = append(positions, i)
	}
	if len(batch) == 0 {
		return out, nil
	}

	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	vecs, err := e.encoder.EncodeBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%s encode: %w", e.encoder.Name(), err)
	}
	if len(vecs) != len(batch) {
		return nil, fmt.Errorf("%s returned %d vectors for %d inputs", e.encoder.Name(), len(vecs), len(batch))
	}
	for j, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("vector dimension mismatch: got %d, want %d", len(v), dim)
		}
		f := make([]float64, dim)
		for k, x := range v {
			f[k] = float64(x)
		}
		out[positions[j]] = domain.Vector{Dense: f}
	}
	return out, nil
}
