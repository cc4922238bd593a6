package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("root: /sdk\n"))
	require.NoError(t, err)

	assert.Equal(t, "/sdk", cfg.Root)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultPackagesDir, cfg.PackagesDir)
	assert.Equal(t, DefaultTemplate, cfg.Template)
	assert.Equal(t, DefaultGuidesSource, cfg.Guides.Source)
	assert.Equal(t, DefaultGuidesTarget, cfg.Guides.Target)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.True(t, cfg.Output.Clean)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	require.NoError(t, cfg.Validate())
}

func TestParse_ExplicitOutputKeepsCleanFlag(t *testing.T) {
	cfg, err := Parse([]byte("output:\n  directory: out\n  minify: true\n"))
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.Output.Directory)
	assert.False(t, cfg.Output.Clean)
	assert.True(t, cfg.Output.Minify)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SDKDOCS_TEST_ROOT", "/opt/addon-sdk")

	cfg, err := Parse([]byte("root: ${SDKDOCS_TEST_ROOT}\nbase_url: /docs/\n"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/addon-sdk", cfg.Root)
	assert.Equal(t, "/docs/", cfg.BaseURL)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("root: [unterminated\n"))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sdkdocs.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Root)
	assert.True(t, cfg.Output.Minify)
	assert.True(t, cfg.Serve.Metrics)

	require.Error(t, Init(path, false), "existing file must not be overwritten")
	require.NoError(t, Init(path, true))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative base url", func(c *Config) { c.BaseURL = "docs/" }, "base_url"},
		{"absolute template", func(c *Config) { c.Template = "/etc/base.html" }, "template"},
		{"escaping guides target", func(c *Config) { c.Guides.Target = "../out" }, "guides.target"},
		{"bad serve addr", func(c *Config) { c.Serve.Addr = "8888" }, "serve.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			de, ok := derrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, de.Context["field"])
		})
	}

	cfg := Default()
	cfg.BaseURL = "https://example.org/sdk/"
	require.NoError(t, cfg.Validate())
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("SDKDOCS_TEST_BASE=/from-dotenv/\nSDKDOCS_TEST_KEEP=dotenv\n"), 0o644))
	t.Setenv("SDKDOCS_TEST_KEEP", "process")
	t.Setenv("SDKDOCS_TEST_BASE", "")
	require.NoError(t, os.Unsetenv("SDKDOCS_TEST_BASE"))

	require.NoError(t, os.WriteFile("sdkdocs.yaml", []byte("base_url: ${SDKDOCS_TEST_BASE}\nroot: ${SDKDOCS_TEST_KEEP}\n"), 0o644))
	cfg, err := Load("sdkdocs.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/from-dotenv/", cfg.BaseURL)
	assert.Equal(t, "process", cfg.Root)
}
