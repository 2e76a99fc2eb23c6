package vectorstore

import "askpdf/internal/domain"

// Storage holds the resident chunk vectors and supports similarity search.
type Storage interface {
	Replace(chunks []domain.Chunk, vectors []domain.Vector) error
	Search(query domain.Vector, topK int) ([]domain.Match, error)
	Clear() error
	Len() int
}
