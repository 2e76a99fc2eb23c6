package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"askpdf/internal/domain"
	"askpdf/internal/embedding"
	"askpdf/internal/logger"
	"askpdf/internal/vectorstore"
)

// State is the lifecycle state of a Session.
type State int

const (
	// StateEmpty means no document is resident.
	StateEmpty State = iota
	// StateReady means a document is chunked and its vectors are cached.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session holds one document's chunks and their precomputed vectors and
// answers queries against them. LoadDocument takes the write lock; queries
// share the read lock.
type Session struct {
	mu          sync.RWMutex
	chunker     domain.Chunker
	vectorizer  embedding.Vectorizer
	store       vectorstore.Storage
	defaultTopK int

	state State
	doc   domain.Document
}

// NewSession wires the retrieval components. defaultTopK is used when a
// query asks for k <= 0.
func NewSession(chunker domain.Chunker, vectorizer embedding.Vectorizer, store vectorstore.Storage, defaultTopK int) *Session {
	if defaultTopK <= 0 {
		defaultTopK = 1
	}
	return &Session{chunker: chunker, vectorizer: vectorizer, store: store, defaultTopK: defaultTopK}
}

// Loaded describes a successful load.
type Loaded struct {
	domain.Document
	Chunks int
}

// LoadDocument replaces the resident document with the given pages. A
// failed load leaves the previous document resident, unless the
// vectorizer cannot fork and its in-place refit already failed, in which
// case the session drops to Empty.
func (s *Session) LoadDocument(source string, pages []string) (Loaded, error) {
	doc := domain.Document{ID: uuid.NewString(), Source: source, Pages: pages}
	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return Loaded{}, err
	}
	if len(chunks) == 0 {
		return Loaded{}, fmt.Errorf("%s: %w", displaySource(source), domain.ErrEmptyDocument)
	}
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Load")
	v, inPlace := s.vectorizer, true
	if f, ok := s.vectorizer.(embedding.Forker); ok {
		v, inPlace = f.Fork(), false
	}
	fail := func(err error) (Loaded, error) {
		if inPlace {
			s.reset()
		}
		return Loaded{}, err
	}
	// The only fit transition: corpus statistics follow the resident document.
	if err := v.Fit(texts); err != nil {
		return fail(fmt.Errorf("fit %s: %w", v.Name(), err))
	}
	done := logger.Timed(fmt.Sprintf("encode %d chunks", len(texts)))
	vectors, err := v.EncodeAll(texts)
	done()
	if err != nil {
		return fail(fmt.Errorf("encode chunks: %w", err))
	}
	if len(vectors) != len(chunks) {
		return fail(errors.New("vectorizer returned wrong number of vectors"))
	}
	if err := s.store.Replace(chunks, vectors); err != nil {
		return fail(err)
	}
	s.vectorizer = v
	s.doc = doc
	s.state = StateReady
	logger.Info("loaded %s: %d pages, %d chunks, vectorizer=%s", displaySource(source), len(pages), len(chunks), v.Name())
	return Loaded{Document: doc, Chunks: len(chunks)}, nil
}

// reset drops to Empty after a failed in-place refit, which may already
// have clobbered the statistics the old cache was encoded with. Caller
// holds the write lock.
func (s *Session) reset() {
	_ = s.store.Clear()
	s.doc = domain.Document{}
	s.state = StateEmpty
}

// LoadText loads a raw text string as a single-page document.
func (s *Session) LoadText(source, text string) (Loaded, error) {
	return s.LoadDocument(source, []string{text})
}

// Query returns up to k chunks ranked by similarity to text. k <= 0 uses
// the session default.
func (s *Session) Query(text string, k int) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, domain.ErrNoDocumentLoaded
	}
	if k <= 0 {
		k = s.defaultTopK
	}
	q, err := s.vectorizer.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	matches, err := s.store.Search(q, k)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		logger.Debug("query %q k=%d best=%.4f (chunk %d)", text, k, matches[0].Score, matches[0].Chunk.Index)
	}
	return matches, nil
}

// Best returns the single best-matching chunk.
func (s *Session) Best(text string) (domain.Match, error) {
	matches, err := s.Query(text, 1)
	if err != nil {
		return domain.Match{}, err
	}
	return matches[0], nil
}

// State reports whether a document is resident.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Document returns the resident document; the zero Document when Empty.
func (s *Session) Document() domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// ChunkCount returns the number of cached chunks.
func (s *Session) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return 0
	}
	return s.store.Len()
}

// DefaultTopK returns the k used when a query does not specify one.
func (s *Session) DefaultTopK() int { return s.defaultTopK }

func displaySource(source string) string {
	if strings.TrimSpace(source) == "" {
		return "document"
	}
	return source
}
