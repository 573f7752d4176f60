package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pulse/internal/lexicon"
	"pulse/internal/sentiment"
)

// Config holds all application configuration
type Config struct {
	App     App     `mapstructure:"app"`
	Engine  Engine  `mapstructure:"engine"`
	Batch   Batch   `mapstructure:"batch"`
	Store   Store   `mapstructure:"store"`
	Logging Logging `mapstructure:"logging"`
	CLI     CLI     `mapstructure:"cli"`
}

// App holds general application configuration
type App struct {
	Debug      bool   `mapstructure:"debug"`
	LogLevel   string `mapstructure:"log_level"`
	DataDir    string `mapstructure:"data_dir"`
	ConfigFile string `mapstructure:"config_file"`
}

// Engine holds sentiment analysis configuration
type Engine struct {
	Method              string   `mapstructure:"method"`
	Language            string   `mapstructure:"language"`
	ConfidenceThreshold float64  `mapstructure:"confidence_threshold"`
	Strategy            string   `mapstructure:"strategy"`
	EmotionAnalysis     bool     `mapstructure:"emotion_analysis"`
	Brands              []string `mapstructure:"brands"`
}

// Batch holds batch analysis configuration
type Batch struct {
	Workers int `mapstructure:"workers"`
}

// Store holds persistence configuration
type Store struct {
	Directory string         `mapstructure:"directory"`
	Database  DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Timeout string `mapstructure:"timeout"`
}

// Logging holds logging configuration
type Logging struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// CLI holds CLI-specific configuration
type CLI struct {
	OutputFormat string `mapstructure:"output_format"`
	HistoryLimit int    `mapstructure:"history_limit"`
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".pulse")
		viper.SetConfigType("yaml")
	}

	// Set defaults
	setDefaults()

	// Bind environment variables
	bindEnvironmentVariables()

	// Enable automatic environment variable reading
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal into struct
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Apply post-processing
	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".pulse-data")

	// Engine defaults
	viper.SetDefault("engine.method", "hybrid")
	viper.SetDefault("engine.language", "auto")
	viper.SetDefault("engine.confidence_threshold", 0.70)
	viper.SetDefault("engine.strategy", "threshold-override")
	viper.SetDefault("engine.emotion_analysis", true)
	viper.SetDefault("engine.brands", []string{})

	// Batch defaults
	viper.SetDefault("batch.workers", 4)

	// Store defaults
	viper.SetDefault("store.directory", ".pulse-data")
	viper.SetDefault("store.database.timeout", "5s")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stdout")

	// CLI defaults
	viper.SetDefault("cli.output_format", "text")
	viper.SetDefault("cli.history_limit", 20)
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("engine.method", []string{
		"PULSE_METHOD",
		"PULSE_ENGINE_METHOD",
	})

	bindEnvKeys("engine.language", []string{
		"PULSE_LANGUAGE",
		"PULSE_ENGINE_LANGUAGE",
	})

	bindEnvKeys("engine.strategy", []string{
		"PULSE_STRATEGY",
	})

	bindEnvKeys("store.directory", []string{
		"PULSE_DATA_DIR",
		"PULSE_STORE_DIR",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"PULSE_DEBUG",
	})

	bindEnvKeys("app.log_level", []string{
		"PULSE_LOG_LEVEL",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	// Expand paths
	if config.App.DataDir != "" {
		config.App.DataDir = expandPath(config.App.DataDir)
	}
	if config.Store.Directory != "" {
		config.Store.Directory = expandPath(config.Store.Directory)
	}

	// Normalize short values
	config.Engine.Method = strings.ToLower(strings.TrimSpace(config.Engine.Method))
	config.Engine.Language = strings.ToLower(strings.TrimSpace(config.Engine.Language))
	config.Engine.Strategy = strings.ToLower(strings.TrimSpace(config.Engine.Strategy))

	// Validate durations
	durations := map[string]string{
		"store.database.timeout": config.Store.Database.Timeout,
	}
	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// validateConfig ensures the configuration is usable
func validateConfig(config *Config) error {
	var errors []string

	if !sentiment.ValidMethod(config.Engine.Method) {
		errors = append(errors, fmt.Sprintf("Unknown analysis method: %s. Supported: rule, naive, hybrid", config.Engine.Method))
	}

	if config.Engine.Language != "" && config.Engine.Language != "auto" && !lexicon.Supported(config.Engine.Language) {
		errors = append(errors, fmt.Sprintf("Unsupported language: %s. Supported: %s, or auto",
			config.Engine.Language, strings.Join(lexicon.SupportedLanguages(), ", ")))
	}

	if config.Engine.ConfidenceThreshold <= 0 || config.Engine.ConfidenceThreshold > 1 {
		errors = append(errors, fmt.Sprintf("Confidence threshold must be in (0, 1], got %v", config.Engine.ConfidenceThreshold))
	}

	if !sentiment.ValidStrategy(config.Engine.Strategy) {
		errors = append(errors, fmt.Sprintf("Unknown blend strategy: %s. Supported: threshold-override, max-confidence, weighted-average", config.Engine.Strategy))
	}

	if config.Batch.Workers < 1 {
		errors = append(errors, fmt.Sprintf("Batch workers must be at least 1, got %d", config.Batch.Workers))
	}

	switch config.CLI.OutputFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("Unknown output format: %s. Supported: text, json", config.CLI.OutputFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Convenience getters for commonly used configuration values
func GetApp() App         { return Get().App }
func GetEngine() Engine   { return Get().Engine }
func GetBatch() Batch     { return Get().Batch }
func GetStore() Store     { return Get().Store }
func GetLogging() Logging { return Get().Logging }
func GetCLI() CLI         { return Get().CLI }

// Specific convenience getters for frequently accessed values
func GetMethod() string         { return Get().Engine.Method }
func GetStoreDirectory() string { return Get().Store.Directory }
func GetBatchWorkers() int      { return Get().Batch.Workers }
func GetOutputFormat() string   { return Get().CLI.OutputFormat }
func GetHistoryLimit() int      { return Get().CLI.HistoryLimit }
func IsDebugMode() bool         { return Get().App.Debug }

// EngineOptions converts the engine section into per-call analysis options.
func EngineOptions() sentiment.Options {
	engine := Get().Engine
	return sentiment.Options{
		Method:              engine.Method,
		Language:            engine.Language,
		EmotionAnalysis:     engine.EmotionAnalysis,
		ConfidenceThreshold: engine.ConfidenceThreshold,
		Strategy:            engine.Strategy,
		Brands:              engine.Brands,
	}
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
