// Package config loads enhancer settings from defaults, an optional YAML
// file and PAGE_ENHANCER_* environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/rcliao/page-enhancer/internal/assistant"
	"github.com/rcliao/page-enhancer/internal/carousel"
	"github.com/rcliao/page-enhancer/internal/motion"
	"github.com/rcliao/page-enhancer/internal/retrieval"
	"github.com/rcliao/page-enhancer/internal/reveal"
)

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore: PAGE_ENHANCER_LOG__LEVEL sets log.level.
const EnvPrefix = "PAGE_ENHANCER_"

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	m := motion.DefaultOptions()
	return &Config{
		Origin: "local",
		Log:    LogConfig{Level: "info"},
		Reveal: RevealConfig{
			Observe:  false,
			Selector: reveal.DefaultSelector,
			Exclude:  reveal.DefaultExclude,
		},
		Carousel: CarouselConfig{
			Sections: []SectionConfig{
				{Heading: `(?i)our\s+partners`, Label: "Our Partners"},
				{Heading: `(?i)premier(e)?\s+partners`, Label: "Premier Partners"},
			},
			LegacySelectors: append([]string(nil), carousel.DefaultLegacySelectors...),
			KeepSelector:    carousel.DefaultKeepSelector,
			ItemWidth:       180,
			Gap:             32,
			ViewportWidth:   1280,
			Motion: MotionConfig{
				SpeedPxPerMs:     m.SpeedPxPerMs,
				FillRatio:        m.FillRatio,
				MaxFillPasses:    m.MaxFillPasses,
				DragThreshold:    m.DragThreshold,
				KeyStep:          m.KeyStep,
				SmoothDurationMs: m.SmoothDurationMs,
			},
		},
		Knowledge: KnowledgeConfig{
			AddressPatterns: []string{`(?i),\s*GA\b`, `(?i)winder`},
		},
		Assistant: AssistantConfig{
			Enabled:    true,
			StorageKey: assistant.DefaultStorageKey,
			CacheSize:  128,
			Labels:     assistant.DefaultLabels(),
			Messages:   retrieval.DefaultMessages(),
			Rules:      retrieval.DefaultRuleTemplates(),
		},
		Watermark: WatermarkConfig{
			Selectors: []string{
				`[data-aid="FOOTER_POWERED_BY_AIRO_RENDERED"]`,
				`[data-aid="FOOTER_POWERED_BY_RENDERED"]`,
			},
		},
	}
}

// Load reads configuration from the given YAML file, if it exists, then
// overlays environment variable overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// YAML encodes the configuration in the format Load reads.
func (c *Config) YAML() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Log.Level)
	}

	if _, err := c.SectionSpecs(); err != nil {
		return err
	}
	if _, err := c.AddressPatterns(); err != nil {
		return err
	}
	if err := retrieval.CompileTemplates(c.Assistant.Rules); err != nil {
		return fmt.Errorf("assistant rules: %w", err)
	}

	if c.Carousel.ItemWidth <= 0 || c.Carousel.ViewportWidth <= 0 {
		return fmt.Errorf("carousel item_width and viewport_width must be positive")
	}
	if c.Carousel.Gap < 0 {
		return fmt.Errorf("carousel gap must be non-negative")
	}
	mc := c.Carousel.Motion
	if mc.SpeedPxPerMs < 0 || mc.FillRatio < 0 || mc.MaxFillPasses < 0 ||
		mc.DragThreshold < 0 || mc.KeyStep < 0 || mc.SmoothDurationMs < 0 {
		return fmt.Errorf("carousel motion settings must be non-negative")
	}
	if c.Assistant.CacheSize < 0 {
		return fmt.Errorf("assistant cache_size must be non-negative")
	}
	return nil
}

// SectionSpecs compiles the configured carousel sections.
func (c *Config) SectionSpecs() ([]carousel.SectionSpec, error) {
	specs := make([]carousel.SectionSpec, 0, len(c.Carousel.Sections))
	for _, s := range c.Carousel.Sections {
		re, err := regexp.Compile(s.Heading)
		if err != nil {
			return nil, fmt.Errorf("carousel section %q: %w", s.Label, err)
		}
		specs = append(specs, carousel.SectionSpec{Heading: re, Label: s.Label})
	}
	return specs, nil
}

// AddressPatterns compiles the address heuristics.
func (c *Config) AddressPatterns() ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range c.Knowledge.AddressPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("address pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// MotionOptions converts the motion settings.
func (c *Config) MotionOptions() motion.Options {
	m := c.Carousel.Motion
	return motion.Options{
		SpeedPxPerMs:     m.SpeedPxPerMs,
		FillRatio:        m.FillRatio,
		MaxFillPasses:    m.MaxFillPasses,
		DragThreshold:    m.DragThreshold,
		KeyStep:          m.KeyStep,
		SmoothDurationMs: m.SmoothDurationMs,
	}
}

// Geometry returns the assumed carousel layout.
func (c *Config) Geometry() carousel.Geometry {
	return carousel.Geometry{
		ItemWidth:     c.Carousel.ItemWidth,
		Gap:           c.Carousel.Gap,
		ViewportWidth: c.Carousel.ViewportWidth,
	}
}
