package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
	"github.com/geocine/geossg/internal/processor"
)

var knownProcessors = []string{processor.TemplateVariablesName, processor.AttributeRewriterName}

// Validate reports configuration errors. Problems that only drop data, such
// as a variant value outside its parameter's domain, are logged as warnings.
func (c *Config) Validate(log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, ssgerrors.ConfigError(fmt.Sprintf(format, args...)).Build())
	}

	g := c.General
	if strings.TrimSpace(g.OutputDir) == "" {
		fail("general.output_dir must not be empty")
	}
	if g.Concurrency < 0 {
		fail("general.concurrency must not be negative, got %d", g.Concurrency)
	}
	if g.DefaultLanguage != "" {
		if _, err := language.Parse(g.DefaultLanguage); err != nil {
			fail("general.default_language %q is not a valid language tag: %v", g.DefaultLanguage, err)
		}
	}
	for _, lang := range c.CanonicalLanguages() {
		if lang == "*" {
			continue
		}
		if _, err := language.Parse(lang); err != nil {
			fail("general.canonical_to_default_langs: %q is not a valid language tag: %v", lang, err)
		}
	}
	if g.TemplatePath != "" && g.DefaultTemplate != "" {
		log.Warn("Both template_path and default_template are set; template_path wins")
	}

	for i, r := range c.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			fail("routes[%d]: path %q must start with /", i, r.Path)
		}
	}

	for i, pr := range c.ParameterizedRoutes {
		errs = append(errs, validatePattern(log, i, pr)...)
	}

	names := slices.Clone(knownProcessors)
	for name, pc := range c.Processors {
		switch {
		case isBuiltinProcessor(name):
			if pc.Command != "" {
				fail("processors.%s: a built-in processor cannot have a command", name)
			}
		case pc.Command != "":
			names = append(names, name)
			if _, err := time.ParseDuration(pc.Timeout); pc.Timeout != "" && err != nil {
				fail("processors.%s.timeout %q is not a duration", name, pc.Timeout)
			}
		default:
			log.Warn("Ignoring configuration for unknown processor", zap.String("processor", name))
		}
	}
	if _, err := processor.TopoSort(names, c.processorConstraints()); err != nil {
		errs = append(errs, ssgerrors.Wrap(err, ssgerrors.KindConfig, "invalid processor order").Build())
	}

	return errors.Join(errs...)
}

func validatePattern(log *zap.Logger, i int, pr ParameterizedRouteConfig) []error {
	var errs []error
	fail := func(format string, args ...any) {
		msg := fmt.Sprintf("parameterized_routes[%d]: ", i) + fmt.Sprintf(format, args...)
		errs = append(errs, ssgerrors.ConfigError(msg).Build())
	}

	if !strings.HasPrefix(pr.Pattern, "/") {
		fail("pattern %q must start with /", pr.Pattern)
	}

	domains := make(map[string][]string, len(pr.Parameters))
	for _, p := range pr.Parameters {
		if p.Name == "" {
			fail("parameter without a name")
			continue
		}
		if _, dup := domains[p.Name]; dup {
			fail("parameter %q declared twice", p.Name)
		}
		domains[p.Name] = p.Values
		if len(p.Values) == 0 {
			log.Warn("Parameter has no values; the pattern yields no pages",
				zap.String("pattern", pr.Pattern), zap.String("param", p.Name))
		}
	}

	for _, name := range metadata.PlaceholderNames(pr.Pattern) {
		if _, ok := domains[name]; !ok {
			fail("placeholder :%s in pattern %q has no parameter definition", name, pr.Pattern)
		}
	}

	for _, v := range pr.Variants {
		for name, value := range v.Values {
			values, known := domains[name]
			if !known || !slices.Contains(values, value) {
				log.Warn("Variant value is outside the parameter domain and will be ignored",
					zap.String("pattern", pr.Pattern),
					zap.String("param", name),
					zap.String("value", value))
			}
		}
	}
	return errs
}
