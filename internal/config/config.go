// Package config provides configuration loading and validation for the
// tracecollector CLI and the trace collector it wraps.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidHandoffInterval = errors.New("collection handoff interval must be positive")
	ErrInvalidReportWidth     = errors.New("report column width must be positive")
	ErrInvalidArchiveLevel    = errors.New("archive compression level out of range")
	ErrInvalidOverheadSamples = errors.New("overhead calibration sample count must be positive")
)

// Default configuration values.
const (
	defaultHandoffInterval  = 500 * time.Millisecond
	defaultReportWidth      = 100
	defaultOverheadSamples  = 64
	minArchiveLevel         = 0
	maxArchiveLevel         = 9
	defaultArchiveLevel     = 4
	defaultArchiveMagic     = "TRCE"
)

// Config holds all configuration for the trace collector and its CLI.
type Config struct {
	Collector CollectorConfig `mapstructure:"collector"`
	Report    ReportConfig    `mapstructure:"report"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// CollectorConfig holds settings for the in-process collector singleton.
type CollectorConfig struct {
	// HandoffInterval is the configured period between CreateCollection
	// handoffs. It is loaded with the rest of the config; no command
	// reads it.
	HandoffInterval time.Duration `mapstructure:"handoff_interval"`
	// OverheadSamples is the configured number of Begin/End pairs for
	// overhead calibration. clock.Calibrate does not read it; it always
	// measures a fixed 256 pairs.
	OverheadSamples int  `mapstructure:"overhead_samples"`
	EnabledAtStart  bool `mapstructure:"enabled_at_start"`
}

// ReportConfig holds settings for the human-readable aggregate report.
type ReportConfig struct {
	GroupByFunction  bool `mapstructure:"group_by_function"`
	FoldRecursive    bool `mapstructure:"fold_recursive_calls"`
	AdjustOverhead   bool `mapstructure:"adjust_for_overhead_and_noise"`
	ColumnWidth      int  `mapstructure:"column_width"`
	Color            bool `mapstructure:"color"`
}

// ArchiveConfig holds settings for the lz4-compressed collection archive format.
type ArchiveConfig struct {
	CompressionLevel int    `mapstructure:"compression_level"`
	SchemaValidation bool   `mapstructure:"schema_validation"`
	Magic            string `mapstructure:"magic"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TelemetryConfig holds OpenTelemetry exporter configuration for
// self-instrumentation of the collector (CreateCollection latency,
// event counts) — never the hot Begin/End path.
type TelemetryConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	Environment    string `mapstructure:"environment"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPInsecure   bool   `mapstructure:"otlp_insecure"`
	SamplerRatio   string `mapstructure:"sampler_ratio"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("tracecollector")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/tracecollector")
	}

	viperCfg.SetEnvPrefix("TRACECOLLECTOR")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("collector.handoff_interval", defaultHandoffInterval)
	viperCfg.SetDefault("collector.overhead_samples", defaultOverheadSamples)
	viperCfg.SetDefault("collector.enabled_at_start", false)

	viperCfg.SetDefault("report.group_by_function", true)
	viperCfg.SetDefault("report.fold_recursive_calls", true)
	viperCfg.SetDefault("report.adjust_for_overhead_and_noise", true)
	viperCfg.SetDefault("report.column_width", defaultReportWidth)
	viperCfg.SetDefault("report.color", true)

	viperCfg.SetDefault("archive.compression_level", defaultArchiveLevel)
	viperCfg.SetDefault("archive.schema_validation", true)
	viperCfg.SetDefault("archive.magic", defaultArchiveMagic)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "json")
	viperCfg.SetDefault("logging.output", "stdout")

	viperCfg.SetDefault("telemetry.service_name", "tracecollector")
	viperCfg.SetDefault("telemetry.environment", "dev")
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", true)
	viperCfg.SetDefault("telemetry.sampler_ratio", "always_on")
	viperCfg.SetDefault("telemetry.prometheus_port", 0)
}

func validate(cfg *Config) error {
	if cfg.Collector.HandoffInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidHandoffInterval, cfg.Collector.HandoffInterval)
	}

	if cfg.Collector.OverheadSamples <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOverheadSamples, cfg.Collector.OverheadSamples)
	}

	if cfg.Report.ColumnWidth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidReportWidth, cfg.Report.ColumnWidth)
	}

	if cfg.Archive.CompressionLevel < minArchiveLevel || cfg.Archive.CompressionLevel > maxArchiveLevel {
		return fmt.Errorf("%w: %d", ErrInvalidArchiveLevel, cfg.Archive.CompressionLevel)
	}

	return nil
}
