package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/decomment/internal/config"
	"bennypowers.dev/decomment/internal/decomment"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, []string{"**/*.html"}, cfg.Include)
	assert.Equal(t, []string{"node_modules/**"}, cfg.Exclude)
	assert.Equal(t, decomment.ModeDOM, cfg.Mode)
	assert.True(t, cfg.Script)
	assert.True(t, cfg.Style)
	assert.Equal(t, runtime.NumCPU(), cfg.Concurrency)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, decomment.Options{}, cfg.Options())
}

func TestLoad(t *testing.T) {
	t.Run("no configuration", func(t *testing.T) {
		cfg, err := config.Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("empty root", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Empty(t, cfg.Source)
	})

	t.Run("package.json field with comments", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "package.json", `{
  "name": "site",
  // build output
  "decomment": {
    "include": "dist/**/*.html",
    "mode": "source",
    "style": false,
    "dryRun": true,
  }
}`)

		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"dist/**/*.html"}, cfg.Include)
		assert.Equal(t, []string{"node_modules/**"}, cfg.Exclude)
		assert.Equal(t, decomment.ModeSource, cfg.Mode)
		assert.True(t, cfg.Script)
		assert.False(t, cfg.Style)
		assert.True(t, cfg.DryRun)
		assert.Equal(t, filepath.Join(root, "package.json"), cfg.Source)
		assert.Equal(t, decomment.Options{Mode: decomment.ModeSource, SkipStyle: true}, cfg.Options())
	})

	t.Run("package.json without field falls back to yaml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "package.json", `{"name": "site"}`)
		writeFile(t, root, ".config/decomment.yaml", `
include:
  - public/**/*.html
  - public/**/*.htm
exclude: public/vendor/**
concurrency: 2
verbose: true
`)

		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, []string{"public/**/*.html", "public/**/*.htm"}, cfg.Include)
		assert.Equal(t, []string{"public/vendor/**"}, cfg.Exclude)
		assert.Equal(t, 2, cfg.Concurrency)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, filepath.Join(root, ".config", "decomment.yaml"), cfg.Source)
	})

	t.Run("yaml wins over json", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".config/decomment.yml", "mode: source\n")
		writeFile(t, root, ".config/decomment.json", `{"mode": "dom"}`)

		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, decomment.ModeSource, cfg.Mode)
	})

	t.Run("jsonc file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".config/decomment.jsonc", `{
  /* scripts only */
  "style": false
}`)

		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.False(t, cfg.Style)
		assert.True(t, cfg.Script)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			file    string
			content string
		}{
			{"malformed package.json", "package.json", `{"decomment": `},
			{"field is not an object", "package.json", `{"decomment": true}`},
			{"unknown mode", ".config/decomment.yaml", "mode: regex\n"},
			{"bad pattern", ".config/decomment.json", `{"include": ["[unclosed"]}`},
			{"zero concurrency", ".config/decomment.json", `{"concurrency": 0}`},
			{"include is a number", ".config/decomment.yaml", "include:\n  nested: 1\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				root := t.TempDir()
				writeFile(t, root, tt.file, tt.content)
				_, err := config.Load(root)
				assert.Error(t, err)
			})
		}
	})
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Include = []string{"[a"}
	cfg.Exclude = []string{"{b"}
	cfg.Concurrency = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid include pattern "[a"`)
	assert.Contains(t, err.Error(), `invalid exclude pattern "{b"`)
	assert.Contains(t, err.Error(), "concurrency must be positive")
}
