package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"  multiple\tspaces\nand lines ", []string{"multiple", "spaces", "and", "lines"}},
		{"don't stop-words", []string{"dont", "stopwords"}},
		{"Version 2.0 of RFC-7231", []string{"version", "20", "of", "rfc7231"}},
		{"café naïve", []string{"caf", "nave"}},
		{"", nil},
		{"!!! ???", nil},
		{"solar\u00a0panel\u2003grid", []string{"solar", "panel", "grid"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Tokenize(tc.in), "input %q", tc.in)
	}
}
