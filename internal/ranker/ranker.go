// Package ranker scores chunk vectors against a query by cosine similarity
// and selects the best matches.
package ranker

import (
	"math"
	"sort"

	"askpdf/internal/domain"
)

// Ranked pairs a corpus index with its similarity score.
type Ranked struct {
	Index int
	Score float64
}

// Cosine returns the cosine similarity of a and b. It is 0 when either
// vector has zero norm, when the representations differ, or when dense
// lengths disagree.
func Cosine(a, b domain.Vector) float64 {
	switch {
	case a.IsSparse() && b.IsSparse():
		return sparseCosine(a.Terms, b.Terms)
	case !a.IsSparse() && !b.IsSparse():
		return denseCosine(a.Dense, b.Dense)
	default:
		return 0
	}
}

// sparseCosine sums products over the shared keys; each norm covers all of
// its own vector's entries.
func sparseCosine(a, b map[string]float64) float64 {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	var dot, na, nb float64
	for k, x := range small {
		if y, ok := large[k]; ok {
			dot += x * y
		}
	}
	for _, x := range a {
		na += x * x
	}
	for _, y := range b {
		nb += y * y
	}
	return finish(dot, na, nb)
}

func denseCosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return finish(dot, na, nb)
}

func finish(dot, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Score computes the similarity of query against every corpus vector,
// preserving corpus order.
func Score(query domain.Vector, corpus []domain.Vector) []float64 {
	scores := make([]float64, len(corpus))
	for i := range corpus {
		scores[i] = Cosine(query, corpus[i])
	}
	return scores
}

// TopK returns the min(k, len(scores)) best entries ordered by score
// descending; equal scores keep ascending index order.
func TopK(scores []float64, k int) []Ranked {
	if k > len(scores) {
		k = len(scores)
	}
	if k <= 0 {
		return []Ranked{}
	}
	ranked := make([]Ranked, len(scores))
	for i, s := range scores {
		ranked[i] = Ranked{Index: i, Score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked[:k]
}
