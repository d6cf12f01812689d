package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Runtime  RuntimeConfig `mapstructure:"runtime"`
	Bench    BenchConfig   `mapstructure:"bench"`
}

type RuntimeConfig struct {
	// Workers is the worker count used when the pool launches; 0 means
	// max(1, hardware concurrency). The count is fixed once launched.
	Workers int `mapstructure:"workers"`
	// EagerLaunch launches the pool at process start instead of lazily on
	// the first dispatch.
	EagerLaunch bool `mapstructure:"eager_launch"`
}

type BenchConfig struct {
	Runs   int    `mapstructure:"runs"`
	Format string `mapstructure:"format"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Runtime: RuntimeConfig{
			Workers:     0,
			EagerLaunch: false,
		},
		Bench: BenchConfig{
			Runs:   5,
			Format: "table",
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.Int("runtime-workers", defaults.Runtime.Workers, "Worker goroutine count (0 = hardware concurrency)")
	fs.Bool("runtime-eager-launch", defaults.Runtime.EagerLaunch, "Launch the worker pool at startup instead of on first dispatch")
	fs.Int("bench-runs", defaults.Bench.Runs, "Number of timed runs per bench case")
	fs.String("bench-format", defaults.Bench.Format, "Bench output format: table|json")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
		// Aliases map flag spellings onto config keys; registering them
		// without bound flags interferes with config-file unmarshalling.
		registerAliases(v)
	}

	v.SetEnvPrefix("PARFUNC")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("parfunc")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Runtime.Workers < 0 {
		return fmt.Errorf("runtime.workers must be >= 0, got %d", cfg.Runtime.Workers)
	}
	if cfg.Bench.Runs < 1 {
		return fmt.Errorf("bench.runs must be >= 1, got %d", cfg.Bench.Runs)
	}
	if cfg.Bench.Format != "table" && cfg.Bench.Format != "json" {
		return fmt.Errorf("bench.format must be 'table' or 'json', got %q", cfg.Bench.Format)
	}

	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("runtime.workers", c.Runtime.Workers)
	v.SetDefault("runtime.eager_launch", c.Runtime.EagerLaunch)
	v.SetDefault("bench.runs", c.Bench.Runs)
	v.SetDefault("bench.format", c.Bench.Format)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("runtime.workers", "runtime-workers")
	v.RegisterAlias("runtime.eager_launch", "runtime-eager-launch")
	v.RegisterAlias("bench.runs", "bench-runs")
	v.RegisterAlias("bench.format", "bench-format")
}
