package model

import "time"

// Config holds the full runtime configuration. It is populated from
// defaults, an optional config file and flags, then passed by reference
// to every component that needs it. No ambient global state.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Knowledge   KnowledgeConfig   `yaml:"knowledge"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls the signal collector's HTTP behavior.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// CacheConfig controls the knowledge cache layers.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	AnswerTTL time.Duration `yaml:"answer_ttl"` // TTL for synthesized answers
	DiskDir   string        `yaml:"disk_dir"`   // Empty disables the disk layer
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "openai"
	Model    string `yaml:"model"`
	APIKey   string `yaml:"-"` // From environment only, never serialized
	BaseURL  string `yaml:"base_url"`
	// RequestsPerSecond bounds outbound embedding calls.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// KnowledgeConfig controls chunking and retrieval.
type KnowledgeConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`           // Requirement queries
	PrecedentK   int    `yaml:"precedent_top_k"` // Precedent searches
	Jurisdiction string `yaml:"jurisdiction"`    // Default requested jurisdiction
	PersistDir   string `yaml:"persist_dir"`     // Vector store persistence, empty = memory only
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	IngestWorkers int `yaml:"ingest_workers"` // Concurrent document ingestions
	EnrichWorkers int `yaml:"enrich_workers"` // Concurrent violation enrichments
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       2 * time.Minute,
			UserAgent:     "gdpr-audit/0.1 (+https://github.com/valefoxdev101/gdpr-education-audit)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			AnswerTTL: 24 * time.Hour,
		},
		Embedding: EmbeddingConfig{
			Provider:          "openai",
			Model:             "text-embedding-3-small",
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Knowledge: KnowledgeConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			TopK:         10,
			PrecedentK:   5,
			Jurisdiction: "HU",
		},
		Concurrency: ConcurrencyConfig{
			IngestWorkers: 4,
			EnrichWorkers: 5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
