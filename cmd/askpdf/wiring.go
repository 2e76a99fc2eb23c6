package main

import (
	"context"
	"fmt"
	"time"

	"askpdf/internal/chunker"
	"askpdf/internal/config"
	"askpdf/internal/domain"
	"askpdf/internal/embedding"
	"askpdf/internal/embedding/dense"
	"askpdf/internal/embedding/hashing"
	"askpdf/internal/embedding/openai"
	"askpdf/internal/embedding/stopwords"
	"askpdf/internal/embedding/termfreq"
	"askpdf/internal/embedding/tfidf"
	"askpdf/internal/logger"
	"askpdf/internal/service"
	"askpdf/internal/vectorstore/memory"
)

// newSession assembles the retrieval components selected by cfg. The dense
// encoder, if any, is initialized here before the session is returned.
func newSession(ctx context.Context, cfg *config.AppConfig) (*service.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ch, err := chunker.NewWordChunker(cfg.Chunker.ChunkSize, cfg.Chunker.OverlapValue())
	if err != nil {
		return nil, err
	}
	vec, err := newVectorizer(ctx, cfg.Vectorizer)
	if err != nil {
		return nil, err
	}
	logger.Debug("session: kind=%s chunk_size=%d overlap=%d top_k=%d",
		vec.Name(), cfg.Chunker.ChunkSize, cfg.Chunker.OverlapValue(), cfg.Retrieval.TopK)
	return service.NewSession(ch, vec, memory.NewStorage(), cfg.Retrieval.TopK), nil
}

func newVectorizer(ctx context.Context, cfg config.VectorizerConfig) (embedding.Vectorizer, error) {
	stop := stopWordSet(cfg)
	switch cfg.Kind {
	case config.KindTermFrequency:
		return termfreq.NewEmbedder(stop), nil
	case config.KindTFIDF, "":
		return tfidf.NewEmbedder(stop), nil
	case config.KindDense:
		return newDense(ctx, cfg.Dense)
	default:
		return nil, fmt.Errorf("%w: unknown vectorizer kind %q", domain.ErrInvalidConfig, cfg.Kind)
	}
}

func newDense(ctx context.Context, cfg *config.DenseConfig) (embedding.Vectorizer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: dense config missing", domain.ErrInvalidConfig)
	}
	switch cfg.Provider {
	case config.ProviderHashing:
		return dense.NewEmbedder(hashing.NewEncoder(cfg.Dimension), 0), nil
	case config.ProviderOpenAI:
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("%w: openai embedder config missing", domain.ErrInvalidConfig)
		}
		timeout := time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   timeout,
			BatchSize: cfg.OpenAI.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		if err := client.Init(ctx); err != nil {
			return nil, err
		}
		logger.Info("openai embedder ready: model=%s dim=%d", cfg.OpenAI.Model, client.Dimension())
		// whole-document batches may span many requests
		return dense.NewEmbedder(client, 0), nil
	default:
		return nil, fmt.Errorf("%w: unknown dense provider %q", domain.ErrInvalidConfig, cfg.Provider)
	}
}

func stopWordSet(cfg config.VectorizerConfig) stopwords.Set {
	switch cfg.StopWords {
	case config.StopWordsNone:
		return nil
	case config.StopWordsCustom:
		return stopwords.New(cfg.CustomStopWords...)
	default:
		return stopwords.English()
	}
}
