// Package hashing provides an offline dense encoder that feature-hashes
// tokens into a fixed number of buckets.
package hashing

import (
	"context"
	"hash/fnv"
	"math"

	"askpdf/internal/embedding"
)

// DefaultDimension is the bucket count used when none is configured.
const DefaultDimension = 256

// Encoder hashes each token into one of dim buckets with a signed count,
// then L2-normalizes the result.
type Encoder struct {
	dim int
}

// NewEncoder creates a hashing encoder. Non-positive dimensions fall back
// to DefaultDimension.
func NewEncoder(dimension int) *Encoder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Encoder{dim: dimension}
}

func (e *Encoder) Name() string   { return "hashing" }
func (e *Encoder) Dimension() int { return e.dim }

func (e *Encoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.encode(t)
	}
	return out, nil
}

func (e *Encoder) encode(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, tok := range embedding.Tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dim))
		// top bit picks the sign so collisions tend to cancel
		if sum>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}
	l2normalize(vec)
	return vec
}

func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
