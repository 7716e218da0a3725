package contract

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/garima1kafle/path2prep/schema"
)

// Default values for configuration.
const (
	DefaultCareerTopK      = 3
	DefaultScholarshipTopK = 5
	MaxResultLimit         = 1000
	DefaultPrecision       = 2
	DefaultEmbeddingDim    = 384
	DefaultMaxSeqLen       = 256
	DefaultModelsDir       = "models"
	DefaultAddr            = ":8080"
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "console"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfilingConfig holds pprof settings.
type ProfilingConfig struct {
	Enabled bool
	Prefix  string
}

// ClassifierWeightsRaw holds custom career ensemble weights.
// Use float64 pointers for optional fields.
type ClassifierWeightsRaw struct {
	RandomForest  *float64 `mapstructure:"random_forest"`
	KNN           *float64 `mapstructure:"knn"`
	NeuralNetwork *float64 `mapstructure:"neural_network"`
}

// SimilarityWeightsRaw holds custom scholarship blend weights.
type SimilarityWeightsRaw struct {
	TFIDF     *float64 `mapstructure:"tfidf"`
	Embedding *float64 `mapstructure:"bert"`
}

// WeightsRawInput holds all custom weight definitions from the YAML config file.
type WeightsRawInput struct {
	Classifier *ClassifierWeightsRaw `mapstructure:"classifier"`
	Similarity *SimilarityWeightsRaw `mapstructure:"similarity"`
}

// Config holds the runtime configuration for ranking.
// This struct remains the "final, validated" config.
type Config struct {
	ResultLimit int // 0 selects the per-engine default
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Explain     bool
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	ProfilePath      string
	User             string
	CareersPath      string
	ScholarshipsPath string

	ModelsDir          string
	OrtLibPath         string
	EmbedModelPath     string
	EmbedTokenizerPath string
	EmbedDim           int
	EmbedMaxSeqLen     int
	LexicalEnabled     bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string
	Addr      string

	// CustomWeights is a mapping of [Engine][Backend] = Weight
	CustomWeights map[schema.CandidateKind]map[schema.Method]float64

	// ComputedWeights is the final weights map for each engine, computed from defaults + custom overrides
	ComputedWeights map[schema.CandidateKind]map[schema.Method]float64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit            int    `mapstructure:"limit"`
	LimitSet         bool   `mapstructure:"-"` // false selects the per-engine default
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	ModelsDir        string `mapstructure:"models-dir"`
	OrtLib           string `mapstructure:"ort-lib"`
	EmbedModel       string `mapstructure:"embed-model"`
	EmbedTokenizer   string `mapstructure:"embed-tokenizer"`
	EmbedDim         int    `mapstructure:"embed-dim"`
	EmbedMaxSeqLen   int    `mapstructure:"embed-max-seq-len"`
	Lexical          string `mapstructure:"lexical"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`

	// --- Fields shared by careersCmd and scholarshipsCmd ---
	Profile      string `mapstructure:"profile"`
	User         string `mapstructure:"user"`
	Explain      bool   `mapstructure:"explain"`
	Careers      string `mapstructure:"careers"`
	Scholarships string `mapstructure:"scholarships"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.CustomWeights = cloneWeights(c.CustomWeights)
	clone.ComputedWeights = cloneWeights(c.ComputedWeights)
	return &clone
}

func cloneWeights(src map[schema.CandidateKind]map[schema.Method]float64) map[schema.CandidateKind]map[schema.Method]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[schema.CandidateKind]map[schema.Method]float64, len(src))
	for kind, kindMap := range src {
		dst[kind] = make(map[schema.Method]float64, len(kindMap))
		maps.Copy(dst[kind], kindMap)
	}
	return dst
}

// TopKFor returns the configured result limit, or the engine default when
// no limit was given.
func (c *Config) TopKFor(kind schema.CandidateKind) int {
	if c.ResultLimit > 0 {
		return c.ResultLimit
	}
	if kind == schema.ScholarshipKind {
		return DefaultScholarshipTopK
	}
	return DefaultCareerTopK
}

// WeightsFor returns the computed weights for an engine, falling back to the defaults.
func (c *Config) WeightsFor(kind schema.CandidateKind) map[schema.Method]float64 {
	if w, ok := c.ComputedWeights[kind]; ok {
		return w
	}
	return schema.GetDefaultWeights(kind)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processModelInputs(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDatabaseBackend lowercases and validates a backend name. An empty name maps to fallback.
func ParseDatabaseBackend(raw string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := ParseDatabaseBackend(input.CacheBackend, schema.SQLiteBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	backend, err = ParseDatabaseBackend(input.HistoryBackend, schema.NoneBackend)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-model fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width
	cfg.ProfilePath = strings.TrimSpace(input.Profile)
	cfg.User = strings.TrimSpace(input.User)
	cfg.CareersPath = strings.TrimSpace(input.Careers)
	cfg.ScholarshipsPath = strings.TrimSpace(input.Scholarships)
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	cfg.ResultLimit = 0
	if input.LimitSet {
		if input.Limit <= 0 || input.Limit > MaxResultLimit {
			return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
		}
		cfg.ResultLimit = input.Limit
	}

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	// --- 3. Logging Validation ---
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("invalid log level '%s'. must be trace, debug, info, warn, error, disabled", input.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("invalid log format '%s'. must be json or console", input.LogFormat)
	}

	// --- 4. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processModelInputs handles the model artifact locations and embedding parameters.
func processModelInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.ModelsDir = strings.TrimSpace(input.ModelsDir)
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = DefaultModelsDir
	}
	cfg.OrtLibPath = strings.TrimSpace(input.OrtLib)
	cfg.EmbedModelPath = strings.TrimSpace(input.EmbedModel)
	cfg.EmbedTokenizerPath = strings.TrimSpace(input.EmbedTokenizer)

	cfg.EmbedDim = input.EmbedDim
	if cfg.EmbedDim == 0 {
		cfg.EmbedDim = DefaultEmbeddingDim
	}
	if cfg.EmbedDim < 0 {
		return fmt.Errorf("embed-dim must be greater than 0 (received %d)", input.EmbedDim)
	}

	cfg.EmbedMaxSeqLen = input.EmbedMaxSeqLen
	if cfg.EmbedMaxSeqLen == 0 {
		cfg.EmbedMaxSeqLen = DefaultMaxSeqLen
	}
	if cfg.EmbedMaxSeqLen < 2 {
		return fmt.Errorf("embed-max-seq-len must be at least 2 (received %d)", input.EmbedMaxSeqLen)
	}

	lexical := input.Lexical
	if lexical == "" {
		lexical = "yes"
	}
	enabled, err := ParseBoolString(lexical)
	if err != nil {
		return fmt.Errorf("invalid --lexical value: %w", err)
	}
	cfg.LexicalEnabled = enabled
	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into the final weights map.
// If validateSum is true, it validates that weights for each engine sum to 1.0.
func ProcessWeightsRawInput(weights WeightsRawInput, validateSum bool) (map[schema.CandidateKind]map[schema.Method]float64, error) {
	result := make(map[schema.CandidateKind]map[schema.Method]float64)

	if raw := weights.Classifier; raw != nil {
		kindMap := make(map[schema.Method]float64)
		if raw.RandomForest != nil {
			kindMap[schema.MethodRandomForest] = *raw.RandomForest
		}
		if raw.KNN != nil {
			kindMap[schema.MethodKNN] = *raw.KNN
		}
		if raw.NeuralNetwork != nil {
			kindMap[schema.MethodNeuralNet] = *raw.NeuralNetwork
		}
		if len(kindMap) > 0 {
			result[schema.CareerKind] = kindMap
		}
	}

	if raw := weights.Similarity; raw != nil {
		kindMap := make(map[schema.Method]float64)
		if raw.TFIDF != nil {
			kindMap[schema.MethodTFIDF] = *raw.TFIDF
		}
		if raw.Embedding != nil {
			kindMap[schema.MethodEmbedding] = *raw.Embedding
		}
		if len(kindMap) > 0 {
			result[schema.ScholarshipKind] = kindMap
		}
	}

	for kind, kindMap := range result {
		sum := 0.0
		for method, w := range kindMap {
			if w < 0 || w > 1 {
				return nil, fmt.Errorf("custom weight %s for %s must be between 0.0 and 1.0, got %.3f", method, kind, w)
			}
			sum += w
		}
		if validateSum && (sum < 0.999 || sum > 1.001) {
			return nil, fmt.Errorf("custom weights for %s must sum to 1.0, got %.3f", kind, sum)
		}
	}

	return result, nil
}

// processCustomWeights converts the raw input into cfg.CustomWeights and
// computes the final ComputedWeights for each engine.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights, true)
	if err != nil {
		return err
	}
	cfg.CustomWeights = weights

	cfg.ComputedWeights = make(map[schema.CandidateKind]map[schema.Method]float64)
	for _, kind := range []schema.CandidateKind{schema.CareerKind, schema.ScholarshipKind} {
		kindWeights := schema.GetDefaultWeights(kind)
		// Custom weights sum to one on their own, so omitted backends drop to zero.
		if custom, ok := cfg.CustomWeights[kind]; ok {
			for method := range kindWeights {
				kindWeights[method] = custom[method]
			}
		}
		cfg.ComputedWeights[kind] = kindWeights
	}

	return nil
}

// ProcessProfilingConfig handles the pprof flag and sets up profiling configuration.
func ProcessProfilingConfig(profiling *ProfilingConfig, prefix string) error {
	if prefix != "" {
		profiling.Enabled = true
		profiling.Prefix = prefix
	}
	return nil
}
