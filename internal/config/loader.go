package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	ssgerrors "github.com/geocine/geossg/internal/errors"
)

// Format identifies a config file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DefaultFileNames are probed in order when no config path is given.
var DefaultFileNames = []string{"ssg.toml", "ssg.yaml", "ssg.yml", "ssg.json"}

// FormatFromPath selects a format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case "":
		return "", ssgerrors.ConfigError("config file has no extension").WithContext("file", path).Build()
	default:
		return "", ssgerrors.ConfigError("unsupported config file extension").
			WithContext("file", path).
			WithContext("extension", filepath.Ext(path)).
			Build()
	}
}

// Discover returns the first default config file present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadFromFile loads configuration from a file, choosing the parser by extension
func LoadFromFile(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ssgerrors.Wrap(err, ssgerrors.KindFileSystem, "failed to read config file").
			WithPath(path).
			Build()
	}

	cfg, err := load(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromString loads configuration from a string in the given format
func LoadFromString(content string, format Format) (*Config, error) {
	return load([]byte(content), format)
}

func load(data []byte, format Format) (*Config, error) {
	cfg := DefaultConfig()
	if err := decode(data, format, cfg); err != nil {
		return nil, ssgerrors.Wrap(err, ssgerrors.KindConfig, "failed to parse config").
			WithContext("format", string(format)).
			Build()
	}

	raw := make(map[string]any)
	if err := decode(data, format, &raw); err != nil {
		return nil, ssgerrors.Wrap(err, ssgerrors.KindConfig, "failed to parse raw config").Build()
	}
	cfg.raw = raw

	cfg.UpdateFromEnv()
	return cfg, nil
}

func decode(data []byte, format Format, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	}
	return fmt.Errorf("unknown config format %q", format)
}

// Encode writes v in the given format. JSON is indented.
func Encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(v)
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, ssgerrors.ConfigError("unknown config format").WithContext("format", string(format)).Build()
}
