package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/decomment/internal/decomment"
)

// PackageJSONField is the package.json field holding configuration
const PackageJSONField = "decomment"

// configFiles are searched in order under the project root
var configFiles = []string{
	".config/decomment.yaml",
	".config/decomment.yml",
	".config/decomment.json",
	".config/decomment.jsonc",
}

// Config holds settings for a batch run
type Config struct {
	// Include lists doublestar patterns, relative to each root, selecting files to process
	Include []string
	// Exclude lists doublestar patterns for files and directories to skip
	Exclude     []string
	Mode        decomment.Mode
	Script      bool
	Style       bool
	Verbose     bool
	Concurrency int
	DryRun      bool
	// Source is the file the configuration was read from, empty for defaults
	Source string
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Include:     []string{"**/*.html"},
		Exclude:     []string{"node_modules/**"},
		Mode:        decomment.ModeDOM,
		Script:      true,
		Style:       true,
		Concurrency: runtime.NumCPU(),
	}
}

// Options converts the configuration to document processing options
func (c *Config) Options() decomment.Options {
	return decomment.Options{
		Mode:       c.Mode,
		SkipScript: !c.Script,
		SkipStyle:  !c.Style,
	}
}

// Validate checks patterns and numeric settings, reporting every problem found
func (c *Config) Validate() error {
	var errs []error
	for _, pattern := range c.Include {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("invalid include pattern %q", pattern))
		}
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("invalid exclude pattern %q", pattern))
		}
	}
	if len(c.Include) == 0 {
		errs = append(errs, errors.New("include must name at least one pattern"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	return errors.Join(errs...)
}

// fileConfig is the on-disk shape. Pointers distinguish absent fields from
// explicit false or zero.
type fileConfig struct {
	Include     stringList `json:"include" yaml:"include"`
	Exclude     stringList `json:"exclude" yaml:"exclude"`
	Mode        string     `json:"mode" yaml:"mode"`
	Script      *bool      `json:"script" yaml:"script"`
	Style       *bool      `json:"style" yaml:"style"`
	Verbose     *bool      `json:"verbose" yaml:"verbose"`
	Concurrency *int       `json:"concurrency" yaml:"concurrency"`
	DryRun      *bool      `json:"dryRun" yaml:"dryRun"`
}

// stringList accepts either a single string or an array of strings
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = stringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected a string or an array of strings")
	}
	*l = list
	return nil
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = stringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return fmt.Errorf("expected a string or a list of strings")
	}
	*l = list
	return nil
}

// Load reads configuration for the project at rootPath. The "decomment" field
// of package.json wins; otherwise the first file in .config/ is used. Missing
// configuration yields the defaults, not an error.
func Load(rootPath string) (*Config, error) {
	cfg := Default()
	if rootPath == "" {
		return cfg, nil
	}

	fc, source, err := find(rootPath)
	if err != nil {
		return nil, err
	}
	if fc == nil {
		return cfg, nil
	}

	if err := fc.apply(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", source, err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", source, err)
	}
	return cfg, nil
}

func find(rootPath string) (*fileConfig, string, error) {
	fc, err := readPackageJSON(rootPath)
	if err != nil {
		return nil, "", err
	}
	if fc != nil {
		return fc, filepath.Join(rootPath, "package.json"), nil
	}

	for _, name := range configFiles {
		path := filepath.Join(rootPath, filepath.FromSlash(name))
		data, err := os.ReadFile(path) //nolint:gosec // G304: project configuration chosen by the user
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
		}

		fc := &fileConfig{}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, fc)
		default:
			err = json.Unmarshal(jsonc.ToJSON(data), fc)
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return fc, path, nil
	}

	return nil, "", nil
}

// readPackageJSON returns the "decomment" field of package.json, or nil when
// the file or field is absent
func readPackageJSON(rootPath string) (*fileConfig, error) {
	path := filepath.Join(rootPath, "package.json")
	data, err := os.ReadFile(path) //nolint:gosec // G304: workspace package.json
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	raw, ok := pkg[PackageJSONField]
	if !ok {
		return nil, nil
	}

	fc := &fileConfig{}
	if err := json.Unmarshal(raw, fc); err != nil {
		return nil, fmt.Errorf("%s field in package.json must be an object: %w", PackageJSONField, err)
	}
	return fc, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Include != nil {
		cfg.Include = fc.Include
	}
	if fc.Exclude != nil {
		cfg.Exclude = fc.Exclude
	}
	if fc.Mode != "" {
		mode, err := decomment.ParseMode(fc.Mode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if fc.Script != nil {
		cfg.Script = *fc.Script
	}
	if fc.Style != nil {
		cfg.Style = *fc.Style
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Concurrency != nil {
		cfg.Concurrency = *fc.Concurrency
	}
	if fc.DryRun != nil {
		cfg.DryRun = *fc.DryRun
	}
	return nil
}
