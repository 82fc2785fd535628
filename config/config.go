// Package config provides configuration loading and validation for
// clincoref.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/revelaction/clincoref/feature"
	"github.com/revelaction/clincoref/logging"
	"github.com/revelaction/clincoref/pair"
	"github.com/revelaction/clincoref/resolve"
)

// Config represents the complete clincoref configuration
type Config struct {
	Resolve  ResolveConfig `yaml:"resolve"`
	Pairing  PairingConfig `yaml:"pairing"`
	Features FeatureConfig `yaml:"features"`
	Model    ModelConfig   `yaml:"model"`
	Storage  StorageConfig `yaml:"storage"`
	Log      LogConfig     `yaml:"log"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// ResolveConfig configures the decision engine
type ResolveConfig struct {
	// Decoding is classify (pairwise) or rank
	Decoding string `yaml:"decoding" validate:"oneof=classify rank"`
	// Policy is greedy (first positive) or best (max positive score)
	Policy string `yaml:"policy" validate:"oneof=greedy best"`
	// KeepNegativeProb is the training negative sampling rate
	KeepNegativeProb float64 `yaml:"keep_negative_prob" validate:"gte=0,lte=1"`
	// Seed drives negative sampling
	Seed int64 `yaml:"seed"`
}

// PairingConfig selects and parameterizes the pairing strategies
type PairingConfig struct {
	Strategies          []string `yaml:"strategies" validate:"min=1,dive,strategy"`
	MaxSentences        int      `yaml:"max_sentences" validate:"gte=0"`
	LongRangeTypes      []string `yaml:"long_range_types"`
	MaxClusterSentences int      `yaml:"max_cluster_sentences" validate:"gte=0"`
}

// FeatureConfig selects the feature extractors
type FeatureConfig struct {
	Extractors []string `yaml:"extractors" validate:"min=1,dive,extractor"`
	// Embeddings is a word2vec text file, required by the distributional
	// extractor
	Embeddings             string `yaml:"embeddings"`
	CacheSize              int    `yaml:"cache_size" validate:"gte=0"`
	StackExcludeSingletons bool   `yaml:"stack_exclude_singletons"`
}

// ModelConfig configures the linear model and instance export
type ModelConfig struct {
	// Path of the YAML weights file, read by resolve and written by train
	Path      string  `yaml:"path"`
	Positive  string  `yaml:"positive" validate:"required"`
	Threshold float64 `yaml:"threshold" validate:"gte=0,lte=1"`
	Epochs    int     `yaml:"epochs" validate:"gte=1"`
	Rate      float64 `yaml:"rate" validate:"gt=0"`
	L2        float64 `yaml:"l2" validate:"gte=0"`
	// SVMLight, when set, is the path prefix of the exported
	// <prefix>.pairs.svm and <prefix>.solo.svm instance files
	SVMLight string `yaml:"svmlight"`
}

// StorageConfig configures document and chain storage
type StorageConfig struct {
	Backend   string `yaml:"backend" validate:"oneof=filesystem sqlite"`
	DocPath   string `yaml:"doc_path"`
	ChainPath string `yaml:"chain_path"`
	DB        string `yaml:"db" validate:"required_if=Backend sqlite"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the counters in the prometheus text
	// format after each command
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Resolve: ResolveConfig{
			Decoding:         string(resolve.Classify),
			Policy:           string(resolve.Greedy),
			KeepNegativeProb: 1,
			Seed:             1,
		},
		Pairing: PairingConfig{
			Strategies: []string{
				pair.SentenceDistance,
				pair.SectionHeader,
				pair.MultiMember,
				pair.Headword,
				pair.PreviousDocument,
			},
			MaxSentences:   5,
			LongRangeTypes: []string{"AnatomicalSite", "Medication"},
		},
		Features: FeatureConfig{
			Extractors: []string{
				feature.AgreementName,
				feature.StringName,
				feature.SectionName,
				feature.SemanticName,
				feature.SalienceName,
				feature.StackDepthName,
			},
			CacheSize: 4096,
		},
		Model: ModelConfig{
			Path:      "model.yaml",
			Positive:  "Identity",
			Threshold: 0.5,
			Epochs:    10,
			Rate:      0.1,
			L2:        1e-4,
		},
		Storage: StorageConfig{
			Backend:   "filesystem",
			DocPath:   "docs",
			ChainPath: "chains",
		},
		Log: LogConfig{
			Level: string(logging.InfoLevel),
		},
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("strategy", func(fl validator.FieldLevel) bool {
		return contains(pair.Names(), fl.Field().String())
	})
	v.RegisterValidation("extractor", func(fl validator.FieldLevel) bool {
		return contains(feature.Names(), fl.Field().String())
	})
	return v
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if contains(c.Features.Extractors, feature.DistributionalName) && c.Features.Embeddings == "" {
		return fmt.Errorf("invalid config: features.embeddings is required by the %s extractor", feature.DistributionalName)
	}
	return nil
}

// Apply overlays a YAML document on c. Keys absent from data keep their
// current value.
func (c *Config) Apply(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := config.Apply(data); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveOptions returns the engine options for mode.
func (c *Config) ResolveOptions(mode resolve.Mode) resolve.Options {
	return resolve.Options{
		Mode:             mode,
		Decoding:         resolve.Decoding(c.Resolve.Decoding),
		Policy:           resolve.Policy(c.Resolve.Policy),
		KeepNegativeProb: c.Resolve.KeepNegativeProb,
		Seed:             c.Resolve.Seed,
	}
}

func (c *Config) PairOptions() pair.Options {
	return pair.Options{
		MaxSentences:        c.Pairing.MaxSentences,
		LongRangeTypes:      c.Pairing.LongRangeTypes,
		MaxClusterSentences: c.Pairing.MaxClusterSentences,
	}
}

func (c *Config) LoggingConfig() *logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.Level(c.Log.Level)
	lc.JSON = c.Log.JSON
	return lc
}
