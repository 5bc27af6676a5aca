package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/geocine/geossg/internal/logger"
)

// EnvPrefix marks environment variables that override config values.
const EnvPrefix = "GEOSSG_"

// GeneralConfig contains site-wide build settings
type GeneralConfig struct {
	OutputDir       string `toml:"output_dir" yaml:"output_dir" json:"output_dir"`
	TemplatePath    string `toml:"template_path" yaml:"template_path" json:"template_path"`
	DefaultTemplate string `toml:"default_template" yaml:"default_template" json:"default_template"`
	ContentDir      string `toml:"content_dir" yaml:"content_dir" json:"content_dir"`
	AssetsBaseDir   string `toml:"assets_base_dir" yaml:"assets_base_dir" json:"assets_base_dir"`
	JSONLDBaseDir   string `toml:"json_ld_base_dir" yaml:"json_ld_base_dir" json:"json_ld_base_dir"`

	SiteName           string   `toml:"site_name" yaml:"site_name" json:"site_name"`
	Domain             string   `toml:"domain" yaml:"domain" json:"domain"`
	TitleFormat        string   `toml:"title_format" yaml:"title_format" json:"title_format"`
	DefaultImage       string   `toml:"default_image" yaml:"default_image" json:"default_image"`
	DefaultDescription string   `toml:"default_description" yaml:"default_description" json:"default_description"`
	DefaultKeywords    []string `toml:"default_keywords" yaml:"default_keywords" json:"default_keywords"`
	DefaultRobots      string   `toml:"default_robots" yaml:"default_robots" json:"default_robots"`
	TwitterHandle      string   `toml:"twitter_handle" yaml:"twitter_handle" json:"twitter_handle"`
	JSONLDDefaultType  string   `toml:"json_ld_default_type" yaml:"json_ld_default_type" json:"json_ld_default_type"`

	// CanonicalToDefaultLangs is either a bool (every language or none) or a
	// comma-separated list of language codes.
	CanonicalToDefaultLangs any    `toml:"canonical_to_default_langs" yaml:"canonical_to_default_langs" json:"canonical_to_default_langs"`
	DefaultLanguage         string `toml:"default_language" yaml:"default_language" json:"default_language"`

	Concurrency          int    `toml:"concurrency" yaml:"concurrency" json:"concurrency"`
	InheritRouteMetadata bool   `toml:"inherit_route_metadata" yaml:"inherit_route_metadata" json:"inherit_route_metadata"`
	MarkerPrefix         string `toml:"marker_prefix" yaml:"marker_prefix" json:"marker_prefix"`
	VariableStart        string `toml:"variable_start" yaml:"variable_start" json:"variable_start"`
	VariableEnd          string `toml:"variable_end" yaml:"variable_end" json:"variable_end"`
	Sitemap              bool   `toml:"sitemap" yaml:"sitemap" json:"sitemap"`
	MetricsFile          string `toml:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
}

// DefaultGeneralConfig returns general settings with defaults
func DefaultGeneralConfig() GeneralConfig {
	return GeneralConfig{
		OutputDir:       "dist",
		ContentDir:      "content",
		SiteName:        "My Site",
		TitleFormat:     "{title} | {site_name}",
		DefaultLanguage: "en",
		MarkerPrefix:    "data-ssg",
		VariableStart:   "{{",
		VariableEnd:     "}}",
		Sitemap:         true,
	}
}

// RouteConfig attaches metadata to one exact path
type RouteConfig struct {
	Path     string            `toml:"path" yaml:"path" json:"path"`
	Metadata map[string]string `toml:"metadata" yaml:"metadata" json:"metadata"`
}

// ParameterDefinition names a route parameter and its ordered values
type ParameterDefinition struct {
	Name   string   `toml:"name" yaml:"name" json:"name"`
	Values []string `toml:"values" yaml:"values" json:"values"`
}

// ParameterVariant applies Metadata whenever every parameter in Values takes
// the listed value.
type ParameterVariant struct {
	Values   map[string]string `toml:"values" yaml:"values" json:"values"`
	Metadata map[string]string `toml:"metadata" yaml:"metadata" json:"metadata"`
}

// ParameterizedRouteConfig describes a pattern such as "/crate/:id"
type ParameterizedRouteConfig struct {
	Pattern    string                `toml:"pattern" yaml:"pattern" json:"pattern"`
	Parameters []ParameterDefinition `toml:"parameters" yaml:"parameters" json:"parameters"`
	Variants   []ParameterVariant    `toml:"variants" yaml:"variants" json:"variants"`
	Metadata   map[string]string     `toml:"metadata" yaml:"metadata" json:"metadata"`
}

// Config is the top-level configuration
type Config struct {
	General             GeneralConfig              `toml:"general" yaml:"general" json:"general"`
	Logging             logger.Config              `toml:"logging" yaml:"logging" json:"logging"`
	GlobalMetadata      map[string]string          `toml:"global_metadata" yaml:"global_metadata" json:"global_metadata"`
	Routes              []RouteConfig              `toml:"routes" yaml:"routes" json:"routes"`
	ParameterizedRoutes []ParameterizedRouteConfig `toml:"parameterized_routes" yaml:"parameterized_routes" json:"parameterized_routes"`
	Processors          map[string]ProcessorConfig `toml:"processors" yaml:"processors" json:"processors"`
	// Redirects maps old paths to the URL they moved to.
	Redirects map[string]string `toml:"redirects" yaml:"redirects" json:"redirects"`
	raw       map[string]any
	// dir is where external processor commands run; see ResolvePaths.
	dir string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		General:        DefaultGeneralConfig(),
		Logging:        logger.DefaultConfig(),
		GlobalMetadata: make(map[string]string),
		Processors:     make(map[string]ProcessorConfig),
		raw:            make(map[string]any),
	}
}

// UpdateFromEnv updates config from environment variables.
// Variables starting with GEOSSG_ are used, with "__" separating levels:
// GEOSSG_GENERAL__SITE_NAME -> general.site_name
func (c *Config) UpdateFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}

		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		configKey := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		configKey = strings.ReplaceAll(configKey, "__", ".")
		c.Set(configKey, value)
	}
}

// Set sets a configuration value using dot notation (e.g. "general.site_name",
// "global_metadata.author"). Unknown keys are kept for Get.
func (c *Config) Set(key, value string) {
	parts := strings.Split(key, ".")

	switch parts[0] {
	case "general":
		if len(parts) == 2 {
			c.setGeneralValue(parts[1], value)
		}
	case "logging":
		if len(parts) == 2 {
			c.setLoggingValue(parts[1], value)
		}
	case "global_metadata":
		if len(parts) >= 2 {
			if c.GlobalMetadata == nil {
				c.GlobalMetadata = make(map[string]string)
			}
			c.GlobalMetadata[strings.Join(parts[1:], ".")] = value
		}
	}
	c.setRawValue(parts, value)
}

func (c *Config) setGeneralValue(key, value string) {
	g := &c.General
	switch key {
	case "output_dir":
		g.OutputDir = value
	case "template_path":
		g.TemplatePath = value
	case "default_template":
		g.DefaultTemplate = value
	case "content_dir":
		g.ContentDir = value
	case "assets_base_dir":
		g.AssetsBaseDir = value
	case "json_ld_base_dir":
		g.JSONLDBaseDir = value
	case "site_name":
		g.SiteName = value
	case "domain":
		g.Domain = value
	case "title_format":
		g.TitleFormat = value
	case "default_image":
		g.DefaultImage = value
	case "default_description":
		g.DefaultDescription = value
	case "default_keywords":
		g.DefaultKeywords = splitList(value)
	case "default_robots":
		g.DefaultRobots = value
	case "twitter_handle":
		g.TwitterHandle = value
	case "json_ld_default_type":
		g.JSONLDDefaultType = value
	case "canonical_to_default_langs":
		if b, err := strconv.ParseBool(value); err == nil {
			g.CanonicalToDefaultLangs = b
		} else {
			g.CanonicalToDefaultLangs = value
		}
	case "default_language":
		g.DefaultLanguage = value
	case "concurrency":
		if n, err := strconv.Atoi(value); err == nil {
			g.Concurrency = n
		}
	case "inherit_route_metadata":
		g.InheritRouteMetadata = parseBool(value)
	case "marker_prefix":
		g.MarkerPrefix = value
	case "variable_start":
		g.VariableStart = value
	case "variable_end":
		g.VariableEnd = value
	case "sitemap":
		g.Sitemap = parseBool(value)
	case "metrics_file":
		g.MetricsFile = value
	}
}

func (c *Config) setLoggingValue(key, value string) {
	l := &c.Logging
	switch key {
	case "level":
		l.Level = value
	case "format":
		l.Format = value
	case "file":
		l.File = value
	case "compress":
		l.Compress = parseBool(value)
	}
}

func (c *Config) setRawValue(parts []string, value string) {
	if c.raw == nil {
		c.raw = make(map[string]any)
	}
	current := c.raw
	for _, part := range parts[:len(parts)-1] {
		m, ok := current[part].(map[string]any)
		if !ok {
			m = make(map[string]any)
			current[part] = m
		}
		current = m
	}
	current[parts[len(parts)-1]] = value
}

// Get retrieves a value from the config using dot notation
func (c *Config) Get(key string) (any, bool) {
	parts := strings.Split(key, ".")

	if parts[0] == "global_metadata" && len(parts) > 1 {
		val, ok := c.GlobalMetadata[strings.Join(parts[1:], ".")]
		return val, ok
	}

	var current any = c.raw
	for _, part := range parts {
		m, isMap := current.(map[string]any)
		if !isMap {
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}

// GetString retrieves a string value from config
func (c *Config) GetString(key string, defaultVal string) string {
	val, ok := c.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	}
	return defaultVal
}

// GetBool retrieves a bool value from config
func (c *Config) GetBool(key string, defaultVal bool) bool {
	val, ok := c.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
