package config

import (
	"github.com/rcliao/page-enhancer/internal/assistant"
	"github.com/rcliao/page-enhancer/internal/retrieval"
)

// Config is the full enhancer configuration.
type Config struct {
	Origin        string          `koanf:"origin" yaml:"origin"`
	DBPath        string          `koanf:"db_path" yaml:"db_path"`
	ReducedMotion bool            `koanf:"reduced_motion" yaml:"reduced_motion"`
	Log           LogConfig       `koanf:"log" yaml:"log"`
	Reveal        RevealConfig    `koanf:"reveal" yaml:"reveal"`
	Carousel      CarouselConfig  `koanf:"carousel" yaml:"carousel"`
	Knowledge     KnowledgeConfig `koanf:"knowledge" yaml:"knowledge"`
	Assistant     AssistantConfig `koanf:"assistant" yaml:"assistant"`
	Watermark     WatermarkConfig `koanf:"watermark" yaml:"watermark"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `koanf:"level" yaml:"level"`
	// File enables a rotated JSON log file in addition to stderr.
	File string `koanf:"file" yaml:"file"`
}

// RevealConfig controls the reveal animator.
type RevealConfig struct {
	// Observe leaves targets hidden until an observer reports them. Static
	// output has no observer, so rendered pages keep it off.
	Observe  bool   `koanf:"observe" yaml:"observe"`
	Selector string `koanf:"selector" yaml:"selector"`
	Exclude  string `koanf:"exclude" yaml:"exclude"`
}

// SectionConfig names a partner section by heading.
type SectionConfig struct {
	Heading string `koanf:"heading" yaml:"heading"`
	Label   string `koanf:"label" yaml:"label"`
}

// MotionConfig tunes the carousel motion controller.
type MotionConfig struct {
	SpeedPxPerMs     float64 `koanf:"speed_px_per_ms" yaml:"speed_px_per_ms"`
	FillRatio        float64 `koanf:"fill_ratio" yaml:"fill_ratio"`
	MaxFillPasses    int     `koanf:"max_fill_passes" yaml:"max_fill_passes"`
	DragThreshold    float64 `koanf:"drag_threshold" yaml:"drag_threshold"`
	KeyStep          float64 `koanf:"key_step" yaml:"key_step"`
	SmoothDurationMs float64 `koanf:"smooth_duration_ms" yaml:"smooth_duration_ms"`
}

// CarouselConfig controls carousel construction and server-side loop fill.
type CarouselConfig struct {
	Sections        []SectionConfig `koanf:"sections" yaml:"sections"`
	LegacySelectors []string        `koanf:"legacy_selectors" yaml:"legacy_selectors"`
	KeepSelector    string          `koanf:"keep_selector" yaml:"keep_selector"`
	ItemWidth       float64         `koanf:"item_width" yaml:"item_width"`
	Gap             float64         `koanf:"gap" yaml:"gap"`
	ViewportWidth   float64         `koanf:"viewport_width" yaml:"viewport_width"`
	Motion          MotionConfig    `koanf:"motion" yaml:"motion"`
}

// KnowledgeConfig controls contact extraction.
type KnowledgeConfig struct {
	AddressPatterns []string `koanf:"address_patterns" yaml:"address_patterns"`
}

// AssistantConfig controls the Q&A widget.
type AssistantConfig struct {
	Enabled    bool                     `koanf:"enabled" yaml:"enabled"`
	StorageKey string                   `koanf:"storage_key" yaml:"storage_key"`
	CacheSize  int                      `koanf:"cache_size" yaml:"cache_size"`
	Labels     assistant.Labels         `koanf:"labels" yaml:"labels"`
	Messages   retrieval.Messages       `koanf:"messages" yaml:"messages"`
	Rules      []retrieval.RuleTemplate `koanf:"rules" yaml:"rules"`
}

// WatermarkConfig lists platform watermark selectors to strip.
type WatermarkConfig struct {
	Selectors []string `koanf:"selectors" yaml:"selectors"`
}
