package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Provider   ProviderConfig   `yaml:"provider" mapstructure:"provider"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
	Build      BuildConfig      `yaml:"build" mapstructure:"build"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ProviderConfig selects and authenticates the generation provider.
type ProviderConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Key     string `yaml:"key" mapstructure:"key"`
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	RPM     int    `yaml:"rpm" mapstructure:"rpm"`
}

// GenerationConfig bounds the refinement loop.
type GenerationConfig struct {
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	MaxTimeSecs float64 `yaml:"max_time_secs" mapstructure:"max_time_secs"`
	PromptFile  string  `yaml:"prompt_file" mapstructure:"prompt_file"`
	Language    string  `yaml:"language" mapstructure:"language"`
}

// BuildConfig configures the native build tool.
type BuildConfig struct {
	Compiler        string `yaml:"compiler" mapstructure:"compiler"`
	CompilerOptions string `yaml:"compiler_options" mapstructure:"compiler_options"`
	SourceFile      string `yaml:"source_file" mapstructure:"source_file"`
}

// OutputConfig controls reporting and post-build execution.
type OutputConfig struct {
	RunExecutable       bool `yaml:"run_executable" mapstructure:"run_executable"`
	PrintCode           bool `yaml:"print_code" mapstructure:"print_code"`
	PrintCompilerErrors bool `yaml:"print_compiler_errors" mapstructure:"print_compiler_errors"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TimeBudget returns the configured cumulative generation budget.
func (g GenerationConfig) TimeBudget() time.Duration {
	return time.Duration(g.MaxTimeSecs * float64(time.Second))
}

// Options splits the whitespace-separated compiler option string.
func (b BuildConfig) Options() []string {
	return strings.Fields(b.CompilerOptions)
}

// ResolveKey returns the API key, reading the key file if no inline key
// is set. An unreadable key file is fatal.
func (p ProviderConfig) ResolveKey() (string, error) {
	if p.Key != "" {
		return p.Key, nil
	}
	if p.KeyFile == "" {
		return "", eris.New("config: provider.key or provider.key_file is required")
	}
	data, err := os.ReadFile(p.KeyFile)
	if err != nil {
		return "", eris.Wrapf(err, "config: read key file %s", p.KeyFile)
	}
	return strings.TrimSpace(string(data)), nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CODESMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("provider.name", "groq")
	v.SetDefault("provider.key_file", "groq_key.txt")
	v.SetDefault("generation.model", "llama-3.3-70b-versatile")
	v.SetDefault("generation.max_tokens", 1000)
	v.SetDefault("generation.max_attempts", 5)
	v.SetDefault("generation.max_time_secs", 10.0)
	v.SetDefault("generation.prompt_file", "prompt.txt")
	v.SetDefault("generation.language", "cpp")
	v.SetDefault("build.compiler", "g++")
	v.SetDefault("build.source_file", "foo.cpp")
	v.SetDefault("output.run_executable", true)
	v.SetDefault("output.print_code", true)
	v.SetDefault("output.print_compiler_errors", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration required to run a session. All
// problems are reported at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Provider.Name {
	case "anthropic", "groq", "openai":
	case "":
		problems = append(problems, "provider.name is required")
	default:
		problems = append(problems, "provider.name must be one of anthropic, groq, openai")
	}
	if c.Provider.Key == "" && c.Provider.KeyFile == "" {
		problems = append(problems, "provider.key or provider.key_file is required")
	}
	if c.Provider.RPM < 0 {
		problems = append(problems, "provider.rpm must be >= 0")
	}
	if c.Generation.Model == "" {
		problems = append(problems, "generation.model is required")
	}
	if c.Generation.MaxAttempts <= 0 {
		problems = append(problems, "generation.max_attempts must be > 0")
	}
	if c.Generation.MaxTimeSecs < 0 {
		problems = append(problems, "generation.max_time_secs must be >= 0")
	}
	if c.Generation.MaxTokens <= 0 {
		problems = append(problems, "generation.max_tokens must be > 0")
	}
	if c.Generation.PromptFile == "" {
		problems = append(problems, "generation.prompt_file is required")
	}
	if c.Build.Compiler == "" {
		problems = append(problems, "build.compiler is required")
	}
	if c.Build.SourceFile == "" {
		problems = append(problems, "build.source_file is required")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
