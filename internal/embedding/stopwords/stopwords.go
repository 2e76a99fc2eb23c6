// Package stopwords holds the stop-word sets excluded by the sparse vectorizers.
package stopwords

import "strings"

// Set is a lookup set of lowercase stop words.
type Set map[string]struct{}

// Contains reports whether word is a stop word. A nil Set contains nothing.
func (s Set) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// New builds a set from words, lowercasing each entry.
func New(words ...string) Set {
	m := make(Set, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			m[w] = struct{}{}
		}
	}
	return m
}

// English returns the built-in English stop-word set.
func English() Set {
	return New(english...)
}

var english = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "dont", "should", "now",
	"i", "me", "my", "we", "our", "you", "your", "he", "him", "his", "she", "her", "they", "them", "their", "what", "which", "who", "whom", "do", "does", "did", "has", "have", "had", "not", "no", "nor", "only", "all", "any", "both", "each", "few", "more", "most", "other", "some", "here", "there", "when", "where", "why", "how",
}
