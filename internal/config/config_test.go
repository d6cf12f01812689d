package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// fakeBinder wraps a pflag.FlagSet to satisfy the flagBinder interface.
type fakeBinder struct {
	fs *pflag.FlagSet
}

func (f *fakeBinder) Flags() *pflag.FlagSet { return f.fs }

// newFlagBinder creates a FlagSet with all config flags registered at their defaults.
func newFlagBinder(defaults Config) *fakeBinder {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	return &fakeBinder{fs: fs}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 0, cfg.Runtime.Workers)
	require.False(t, cfg.Runtime.EagerLaunch)
	require.Equal(t, 5, cfg.Bench.Runs)
	require.Equal(t, "table", cfg.Bench.Format)
}

func TestRegisterFlags(t *testing.T) {
	defaults := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	checks := []struct {
		flag string
		want string
	}{
		{"log-level", "info"},
		{"runtime-workers", "0"},
		{"runtime-eager-launch", "false"},
		{"bench-runs", "5"},
		{"bench-format", "table"},
	}

	for _, c := range checks {
		f := fs.Lookup(c.flag)
		require.NotNilf(t, f, "flag %q not registered", c.flag)
		require.Equalf(t, c.want, f.DefValue, "flag %q default", c.flag)
	}
}

func TestLoad_Defaults(t *testing.T) {
	defaults := DefaultConfig()
	binder := newFlagBinder(defaults)

	cfg, err := Load(LoadOptions{
		Cmd:      binder,
		Defaults: defaults,
	})
	require.NoError(t, err)

	require.Equal(t, defaults, cfg)
}

func TestLoad_FlagOverride(t *testing.T) {
	defaults := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	require.NoError(t, fs.Parse([]string{
		"--runtime-workers=8",
		"--runtime-eager-launch",
		"--log-level=debug",
	}))

	cfg, err := Load(LoadOptions{
		Cmd:      &fakeBinder{fs: fs},
		Defaults: defaults,
	})
	require.NoError(t, err)

	require.Equal(t, 8, cfg.Runtime.Workers)
	require.True(t, cfg.Runtime.EagerLaunch)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PARFUNC_LOG_LEVEL", "warn")
	t.Setenv("PARFUNC_RUNTIME_WORKERS", "3")

	cfg, err := Load(LoadOptions{
		Defaults: DefaultConfig(),
	})
	require.NoError(t, err)

	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 3, cfg.Runtime.Workers)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "parfunc.yaml")

	content := `
log_level: error
runtime:
  workers: 16
  eager_launch: true
bench:
  runs: 9
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))

	cfg, err := Load(LoadOptions{
		ConfigFile: cfgFile,
		Defaults:   DefaultConfig(),
	})
	require.NoError(t, err)

	require.Equal(t, "error", cfg.LogLevel)
	require.Equal(t, 16, cfg.Runtime.Workers)
	require.True(t, cfg.Runtime.EagerLaunch)
	require.Equal(t, 9, cfg.Bench.Runs)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(":\t:bad yaml:::"), 0o644))

	_, err := Load(LoadOptions{
		ConfigFile: cfgFile,
		Defaults:   DefaultConfig(),
	})
	require.Error(t, err)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigFile: "/nonexistent/path/parfunc.yaml",
		Defaults:   DefaultConfig(),
	})
	require.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"negative workers", map[string]string{"PARFUNC_RUNTIME_WORKERS": "-1"}},
		{"zero runs", map[string]string{"PARFUNC_BENCH_RUNS": "0"}},
		{"bad format", map[string]string{"PARFUNC_BENCH_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(LoadOptions{Defaults: DefaultConfig()})
			require.Error(t, err)
		})
	}
}

func TestLoad_NilCmd(t *testing.T) {
	cfg, err := Load(LoadOptions{
		Cmd:      nil,
		Defaults: DefaultConfig(),
	})
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
}
