package embedding

import (
	"strings"
	"unicode"

	"askpdf/internal/domain"
)

// Vectorizer converts free text into a sparse or dense vector.
// Implementations that need corpus statistics compute them in Fit, which
// must run before any Encode call and is never triggered by a query.
type Vectorizer interface {
	Name() string
	Fit(corpus []string) error
	Encode(text string) (domain.Vector, error)
	EncodeAll(texts []string) ([]domain.Vector, error)
}

// Forker is implemented by vectorizers that can hand out an unfitted
// sibling with the same settings. Fitting the sibling never changes the
// receiver, so a failed load cannot disturb the statistics in use.
// Vectorizers without fit state may return themselves.
type Forker interface {
	Fork() Vectorizer
}

// Tokenize lowercases text, drops every rune outside [a-z0-9] and
// whitespace, and splits on whitespace.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	tokens := strings.Fields(b.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
