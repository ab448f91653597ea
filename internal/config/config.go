package config

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/relation-engine/internal/platform/envutil"
	"github.com/yungbote/relation-engine/internal/platform/logger"
)

const extractionConfigEnv = "EXTRACTION_CONFIG_YAML"

//go:embed extraction.yaml
var extractionDefaultsFS embed.FS

type PredicateConfig struct {
	DirectConfidence   float64 `yaml:"direct_confidence"`
	IndirectConfidence float64 `yaml:"indirect_confidence"`
}

type LocatorConfig struct {
	TierExact     float64 `yaml:"tier_exact"`
	TierExpanded  float64 `yaml:"tier_expanded"`
	TierEntity    float64 `yaml:"tier_entity"`
	TierSubstring float64 `yaml:"tier_substring"`
}

type ConcurrencyConfig struct {
	SectionWorkers int `yaml:"section_workers"`
}

type Extraction struct {
	PromotionThreshold float64           `yaml:"promotion_threshold"`
	Predicate          PredicateConfig   `yaml:"predicate"`
	Locator            LocatorConfig     `yaml:"locator"`
	Rules              []string          `yaml:"rules"`
	Concurrency        ConcurrencyConfig `yaml:"concurrency"`
}

var (
	loadOnce sync.Once
	loaded   Extraction
)

// LoadExtraction resolves the extraction tunables: embedded defaults,
// optionally replaced by an external YAML file, with individual env
// overrides applied last. Invalid override files fall back to defaults
// with a warning rather than failing the process.
func LoadExtraction(log *logger.Logger) Extraction {
	loadOnce.Do(func() {
		cfg, err := decodeDefaults()
		if err != nil {
			// The embedded file ships with the binary; decode failure is a
			// build defect, but a running worker still gets sane values.
			cfg = fallbackExtraction()
			if log != nil {
				log.Error("embedded extraction config invalid; using fallback", "error", err)
			}
		}

		if path := strings.TrimSpace(os.Getenv(extractionConfigEnv)); path != "" {
			raw, readErr := os.ReadFile(path)
			if readErr != nil {
				if log != nil {
					log.Warn("extraction config override unreadable; using defaults", "path", path, "error", readErr)
				}
			} else if decodeErr := yaml.Unmarshal(raw, &cfg); decodeErr != nil {
				if log != nil {
					log.Warn("extraction config override invalid; using defaults", "path", path, "error", decodeErr)
				}
				cfg, _ = decodeDefaults()
			}
		}

		cfg.PromotionThreshold = envutil.Float("EXTRACTION_PROMOTION_THRESHOLD", cfg.PromotionThreshold)
		cfg.Predicate.DirectConfidence = envutil.Float("EXTRACTION_PREDICATE_DIRECT_CONFIDENCE", cfg.Predicate.DirectConfidence)
		cfg.Predicate.IndirectConfidence = envutil.Float("EXTRACTION_PREDICATE_INDIRECT_CONFIDENCE", cfg.Predicate.IndirectConfidence)
		cfg.Concurrency.SectionWorkers = envutil.Int("EXTRACTION_SECTION_WORKERS", cfg.Concurrency.SectionWorkers)

		if cfg.Concurrency.SectionWorkers < 1 {
			cfg.Concurrency.SectionWorkers = 1
		}
		loaded = cfg
	})
	return loaded
}

func decodeDefaults() (Extraction, error) {
	var cfg Extraction
	raw, err := extractionDefaultsFS.ReadFile("extraction.yaml")
	if err != nil {
		return cfg, fmt.Errorf("read embedded extraction.yaml: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded extraction.yaml: %w", err)
	}
	return cfg, nil
}

func fallbackExtraction() Extraction {
	return Extraction{
		PromotionThreshold: 0.7,
		Predicate:          PredicateConfig{DirectConfidence: 0.8, IndirectConfidence: 0.6},
		Locator:            LocatorConfig{TierExact: 1.0, TierExpanded: 0.9, TierEntity: 0.85, TierSubstring: 0.7},
		Rules:              []string{"auxiliary", "copula", "modal_or_intentional", "proximity"},
		Concurrency:        ConcurrencyConfig{SectionWorkers: 4},
	}
}
