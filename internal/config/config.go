package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"askpdf/internal/domain"
)

// Vectorizer kinds.
const (
	KindTermFrequency = "term-frequency"
	KindTFIDF         = "tfidf"
	KindDense         = "dense-embedding"
)

// Stop-word modes.
const (
	StopWordsEnglish = "english"
	StopWordsNone    = "none"
	StopWordsCustom  = "custom"
)

// Dense providers.
const (
	ProviderOpenAI  = "openai"
	ProviderHashing = "hashing"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// DenseConfig selects the batch encoder behind the dense-embedding kind.
type DenseConfig struct {
	Provider  string                `yaml:"provider"`
	Dimension int                   `yaml:"dimension,omitempty"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// VectorizerConfig selects and configures the vectorizer implementation.
type VectorizerConfig struct {
	Kind            string       `yaml:"kind"`
	StopWords       string       `yaml:"stop_words"`
	CustomStopWords []string     `yaml:"custom_stop_words,omitempty"`
	Dense           *DenseConfig `yaml:"dense,omitempty"`
}

// ChunkerConfig configures the word windows. Overlap is a pointer so that
// an explicit 0 survives defaulting.
type ChunkerConfig struct {
	ChunkSize int  `yaml:"chunk_size"`
	Overlap   *int `yaml:"overlap"`
}

// RetrievalConfig configures query results.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Server     ServerConfig     `yaml:"server"`
}

type kindDefaults struct {
	chunkSize, overlap, topK int
}

var defaultsByKind = map[string]kindDefaults{
	KindTermFrequency: {chunkSize: 350, overlap: 80, topK: 3},
	KindTFIDF:         {chunkSize: 800, overlap: 150, topK: 1},
	KindDense:         {chunkSize: 500, overlap: 100, topK: 3},
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./askpdf.yaml first, then ~/.config/askpdf/config.yaml.
// If neither exists, it writes defaults to ~/.config/askpdf/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "askpdf.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "askpdf", "config.yaml"), nil
}

// Default returns the single-best-match configuration:
// TF-IDF with English stop words.
func Default() *AppConfig {
	cfg := &AppConfig{Vectorizer: VectorizerConfig{Kind: KindTFIDF}}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset values, using the chunking and top-k defaults
// of the selected vectorizer kind.
func ApplyDefaults(cfg *AppConfig) {
	if cfg.Vectorizer.Kind == "" {
		cfg.Vectorizer.Kind = KindTFIDF
	}
	if cfg.Vectorizer.StopWords == "" {
		cfg.Vectorizer.StopWords = StopWordsEnglish
	}
	d, ok := defaultsByKind[cfg.Vectorizer.Kind]
	if ok {
		if cfg.Chunker.ChunkSize == 0 {
			cfg.Chunker.ChunkSize = d.chunkSize
		}
		if cfg.Chunker.Overlap == nil {
			overlap := d.overlap
			if overlap >= cfg.Chunker.ChunkSize {
				overlap = cfg.Chunker.ChunkSize / 4
			}
			cfg.Chunker.Overlap = &overlap
		}
		if cfg.Retrieval.TopK == 0 {
			cfg.Retrieval.TopK = d.topK
		}
	}
	if cfg.Vectorizer.Kind == KindDense {
		if cfg.Vectorizer.Dense == nil {
			cfg.Vectorizer.Dense = &DenseConfig{}
		}
		dc := cfg.Vectorizer.Dense
		if dc.Provider == "" {
			dc.Provider = ProviderOpenAI
		}
		if dc.Provider == ProviderOpenAI {
			if dc.OpenAI == nil {
				dc.OpenAI = &OpenAIEmbedderConfig{}
			}
			o := dc.OpenAI
			if o.BaseURL == "" {
				o.BaseURL = "https://api.openai.com/v1"
			}
			if o.APIKeyEnv == "" {
				o.APIKeyEnv = "OPENAI_API_KEY"
			}
			if o.Model == "" {
				o.Model = "text-embedding-3-small"
			}
			if o.TimeoutSecs == 0 {
				o.TimeoutSecs = 30
			}
			if o.BatchSize == 0 {
				o.BatchSize = 32
			}
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.BodyLimitMB == 0 {
		cfg.Server.BodyLimitMB = 32
	}
}

// OverlapValue returns the configured overlap, 0 when unset.
func (c ChunkerConfig) OverlapValue() int {
	if c.Overlap == nil {
		return 0
	}
	return *c.Overlap
}

// Validate reports the first invalid setting, wrapped in domain.ErrInvalidConfig.
func (c *AppConfig) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if _, ok := defaultsByKind[c.Vectorizer.Kind]; !ok {
		return invalid("unknown vectorizer kind %q", c.Vectorizer.Kind)
	}
	size, overlap := c.Chunker.ChunkSize, c.Chunker.OverlapValue()
	if size <= 0 {
		return invalid("chunk_size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return invalid("overlap must be in [0, %d), got %d", size, overlap)
	}
	if c.Retrieval.TopK <= 0 {
		return invalid("top_k must be positive, got %d", c.Retrieval.TopK)
	}
	switch c.Vectorizer.StopWords {
	case StopWordsEnglish, StopWordsNone:
	case StopWordsCustom:
		if len(c.Vectorizer.CustomStopWords) == 0 {
			return invalid("stop_words is custom but custom_stop_words is empty")
		}
	default:
		return invalid("unknown stop_words mode %q", c.Vectorizer.StopWords)
	}
	if c.Vectorizer.Kind == KindDense {
		dc := c.Vectorizer.Dense
		if dc == nil {
			return invalid("dense config missing")
		}
		switch dc.Provider {
		case ProviderOpenAI:
			if dc.OpenAI == nil {
				return invalid("openai embedder config missing")
			}
		case ProviderHashing:
			if dc.Dimension < 0 {
				return invalid("dense dimension must not be negative")
			}
		default:
			return invalid("unknown dense provider %q", dc.Provider)
		}
	}
	if c.Server.BodyLimitMB < 0 {
		return invalid("body_limit_mb must not be negative")
	}
	return nil
}
