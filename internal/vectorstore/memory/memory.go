package memory

import (
	"errors"
	"sync"

	"askpdf/internal/domain"
	"askpdf/internal/ranker"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu      sync.RWMutex
	vectors []domain.Vector
	chunks  []domain.Chunk
}

func NewStorage() *Storage { return &Storage{} }

// Replace swaps in a new chunk set, discarding everything held before.
func (s *Storage) Replace(chunks []domain.Chunk, vectors []domain.Vector) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	c := make([]domain.Chunk, len(chunks))
	copy(c, chunks)
	v := make([]domain.Vector, len(vectors))
	copy(v, vectors)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = c
	s.vectors = v
	return nil
}

func (s *Storage) Search(query domain.Vector, topK int) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		return nil, errors.New("topK must be positive")
	}
	ranked := ranker.TopK(ranker.Score(query, s.vectors), topK)
	results := make([]domain.Match, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, domain.Match{Chunk: s.chunks[r.Index], Score: r.Score})
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
