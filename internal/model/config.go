package model

import "time"

// Config is the full configuration surface for the pipeline.
type Config struct {
	Collector   CollectorConfig   `yaml:"collector" json:"collector"`
	Extractor   ExtractorConfig   `yaml:"extractor" json:"extractor"`
	Cluster     ClusterConfig     `yaml:"cluster" json:"cluster"`
	Verify      VerifyConfig      `yaml:"verify" json:"verify"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
}

// CollectorConfig controls candidate collection and deduplication.
type CollectorConfig struct {
	// OverlapThreshold is the span-overlap fraction above which two
	// detections of the same text region count as duplicates.
	OverlapThreshold float64 `yaml:"overlap_threshold" json:"overlap_threshold"`
	// SpanTolerance is the offset slack (chars) allowed when two detections
	// have identical normalized text.
	SpanTolerance int `yaml:"span_tolerance" json:"span_tolerance"`
}

// ExtractorConfig controls case-name and year extraction.
type ExtractorConfig struct {
	// Window is how far back (chars) from a citation the name search looks.
	Window int `yaml:"window" json:"window"`
	// YearWindow is how far forward (chars) the year search looks.
	YearWindow int `yaml:"year_window" json:"year_window"`
	// MinNameLength rejects extracted names shorter than this.
	MinNameLength int `yaml:"min_name_length" json:"min_name_length"`
}

// ClusterConfig controls parallel-citation grouping.
type ClusterConfig struct {
	// ProximityThreshold is the max gap (chars) between citations grouped by
	// physical proximity.
	ProximityThreshold int `yaml:"proximity_threshold" json:"proximity_threshold"`
	// NameSimilarity is the minimum similarity for grouping non-proximate
	// citations by extracted name.
	NameSimilarity float64 `yaml:"name_similarity" json:"name_similarity"`
	// MaxSpanMultiple bounds a proximity cluster's total span as a multiple
	// of ProximityThreshold.
	MaxSpanMultiple int `yaml:"max_span_multiple" json:"max_span_multiple"`
}

// VerifyConfig controls the verification chain and match acceptance.
type VerifyConfig struct {
	// Sources is the ordered chain of source names to try.
	Sources []string `yaml:"sources" json:"sources"`
	// MinNameOverlap is the minimum significant-word overlap between the
	// extracted name and a candidate's name.
	MinNameOverlap float64 `yaml:"min_name_overlap" json:"min_name_overlap"`
	// GovPartyThreshold is the similarity required between non-government
	// party names in government-party cases.
	GovPartyThreshold float64 `yaml:"gov_party_threshold" json:"gov_party_threshold"`
	// YearTolerance is the max allowed distance between extracted and
	// candidate years.
	YearTolerance int `yaml:"year_tolerance" json:"year_tolerance"`
	// SourceTimeout bounds each outbound source call.
	SourceTimeout time.Duration `yaml:"source_timeout" json:"source_timeout"`
	// Retries is the attempt count for transient source failures.
	Retries int `yaml:"retries" json:"retries"`
	// TotalTimeout bounds verification for the whole document; citations
	// still pending at expiry are marked unverified.
	TotalTimeout time.Duration `yaml:"total_timeout" json:"total_timeout"`
	// CourtListener holds credentials for the primary source.
	CourtListener CourtListenerConfig `yaml:"courtlistener" json:"courtlistener"`
	// FallbackSearchURL is the endpoint for the general-purpose fallback
	// search source; empty disables it.
	FallbackSearchURL string `yaml:"fallback_search_url" json:"fallback_search_url"`
}

// CourtListenerConfig configures the structured citation-lookup source.
type CourtListenerConfig struct {
	BaseURL  string `yaml:"base_url" json:"base_url"`
	APIToken string `yaml:"api_token" json:"-"`
}

// ConcurrencyConfig controls worker pools.
type ConcurrencyConfig struct {
	// VerifyWorkers caps concurrent outbound verification calls.
	VerifyWorkers int `yaml:"verify_workers" json:"verify_workers"`
	// BatchWorkers caps concurrent documents in batch mode.
	BatchWorkers int `yaml:"batch_workers" json:"batch_workers"`
	// RequestsPerSecond rate-limits outbound calls per source host.
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
}

// HTTPConfig controls document fetching and outbound calls.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy" json:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy" json:"no_proxy,omitempty"`
}

// CacheConfig controls the verification-response cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// LLMConfig configures the optional report summarizer.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "" disables
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"api_key" json:"-"`
	BaseURL   string `yaml:"base_url" json:"base_url,omitempty"`
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
	TimeoutS  int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// DefaultConfig returns the built-in defaults. The similarity and tolerance
// values are tunables, not constants of the domain; they are exposed here so
// deployments can calibrate them against a labeled corpus.
func DefaultConfig() *Config {
	return &Config{
		Collector: CollectorConfig{
			OverlapThreshold: 0.8,
			SpanTolerance:    5,
		},
		Extractor: ExtractorConfig{
			Window:        300,
			YearWindow:    120,
			MinNameLength: 10,
		},
		Cluster: ClusterConfig{
			ProximityThreshold: 200,
			NameSimilarity:     0.92,
			MaxSpanMultiple:    2,
		},
		Verify: VerifyConfig{
			Sources:           []string{"courtlistener", "courtlistener-search", "websearch"},
			MinNameOverlap:    0.5,
			GovPartyThreshold: 0.7,
			YearTolerance:     2,
			SourceTimeout:     15 * time.Second,
			Retries:           3,
			TotalTimeout:      5 * time.Minute,
			CourtListener: CourtListenerConfig{
				BaseURL: "https://www.courtlistener.com",
			},
		},
		Concurrency: ConcurrencyConfig{
			VerifyWorkers:     10,
			BatchWorkers:      4,
			RequestsPerSecond: 2,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Lexhound/0.1 (+https://github.com/lexhound/lexhound)",
			MaxBodyBytes: 4_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			MaxTokens: 1000,
			TimeoutS:  30,
		},
	}
}
