package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/metadata"
	"github.com/geocine/geossg/internal/processor"
)

// CanonicalLanguages normalizes canonical_to_default_langs into a language
// list. true yields "*" (every language); false or unset yields nil.
func (c *Config) CanonicalLanguages() []string {
	switch v := c.General.CanonicalToDefaultLangs.(type) {
	case nil:
		return nil
	case bool:
		if v {
			return []string{"*"}
		}
		return nil
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			if b {
				return []string{"*"}
			}
			return nil
		}
		return generator.ParseLanguages(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

// GlobalMetadata returns the configured global metadata with site-wide
// settings filled in where the user did not set them.
func (c *Config) GlobalMetadata() metadata.Metadata {
	md := metadata.Metadata(c.GlobalMetadata).Clone()
	if c.General.SiteName != "" {
		md.SetDefault("site_name", c.General.SiteName)
	}
	if c.General.DefaultImage != "" {
		md.SetDefault("default_image", c.General.DefaultImage)
	}
	return md
}

// RouteTable maps exact paths to their metadata.
func (c *Config) RouteTable() map[string]map[string]string {
	table := make(map[string]map[string]string, len(c.Routes))
	for _, r := range c.Routes {
		entry, ok := table[r.Path]
		if !ok {
			entry = make(map[string]string, len(r.Metadata))
			table[r.Path] = entry
		}
		for k, v := range r.Metadata {
			entry[k] = v
		}
	}
	return table
}

// PatternRoutes converts parameterized routes for the expander. A variant
// naming several parameters contributes one override per parameter, in the
// parameters' declared order.
func (c *Config) PatternRoutes() []metadata.PatternRoute {
	out := make([]metadata.PatternRoute, 0, len(c.ParameterizedRoutes))
	for _, pr := range c.ParameterizedRoutes {
		route := metadata.PatternRoute{
			Pattern:  pr.Pattern,
			Metadata: pr.Metadata,
		}
		declared := make([]string, 0, len(pr.Parameters))
		for _, p := range pr.Parameters {
			route.Parameters = append(route.Parameters, metadata.Parameter{Name: p.Name, Values: p.Values})
			declared = append(declared, p.Name)
		}
		for _, v := range pr.Variants {
			for _, name := range variantNames(v, declared) {
				route.Overrides = append(route.Overrides, metadata.Override{
					Name:     name,
					Value:    v.Values[name],
					Metadata: v.Metadata,
				})
			}
		}
		out = append(out, route)
	}
	return out
}

// variantNames orders a variant's parameters: declared ones first in declared
// order, then unknown ones sorted so the expander can report them.
func variantNames(v ParameterVariant, declared []string) []string {
	names := make([]string, 0, len(v.Values))
	for _, d := range declared {
		if _, ok := v.Values[d]; ok {
			names = append(names, d)
		}
	}
	var unknown []string
	for name := range v.Values {
		if !slices.Contains(declared, name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return append(names, unknown...)
}

// GeneratorOptions projects the general settings onto the built-in generators.
func (c *Config) GeneratorOptions() generator.Options {
	g := c.General
	jsonLDDir := g.JSONLDBaseDir
	if jsonLDDir == "" {
		jsonLDDir = g.AssetsBaseDir
	}
	twitter := ""
	if handle := strings.TrimPrefix(g.TwitterHandle, "@"); handle != "" {
		twitter = "@" + handle
	}
	return generator.Options{
		SiteName:           g.SiteName,
		Domain:             g.Domain,
		DefaultDescription: g.DefaultDescription,
		DefaultKeywords:    g.DefaultKeywords,
		DefaultImage:       g.DefaultImage,
		DefaultRobots:      g.DefaultRobots,
		TitleFormat:        g.TitleFormat,
		TwitterSite:        twitter,
		DefaultLanguage:    g.DefaultLanguage,
		CanonicalToDefault: c.CanonicalLanguages(),
		JSONLDBaseDir:      jsonLDDir,
		JSONLDDefaultType:  g.JSONLDDefaultType,
	}
}

// Registry builds the built-in generator registry.
func (c *Config) Registry(log *zap.Logger) *generator.Registry {
	return generator.NewRegistry(log, generator.Builtins(c.GeneratorOptions())...)
}

// Chain builds the processor chain: template variables, the attribute
// rewriter, then any external processors, reordered by before/after
// constraints. gens resolves keys the rewriter meets that were not produced
// up front.
func (c *Config) Chain(gens processor.KeyGenerator) (*processor.Chain, error) {
	all := []processor.Processor{
		&processor.TemplateVariables{Start: c.General.VariableStart, End: c.General.VariableEnd},
		&processor.AttributeRewriter{Prefix: c.General.MarkerPrefix, Generators: gens},
	}

	enabled := make([]processor.Processor, 0, len(all))
	for _, p := range all {
		if pc, ok := c.Processors[p.Name()]; ok && pc.Disabled {
			continue
		}
		enabled = append(enabled, p)
	}
	external, err := c.externalProcessors()
	if err != nil {
		return nil, ssgerrors.Wrap(err, ssgerrors.KindConfig, "invalid processor timeout").Build()
	}
	enabled = append(enabled, external...)

	ordered, err := processor.Ordered(enabled, c.processorConstraints())
	if err != nil {
		return nil, ssgerrors.Wrap(err, ssgerrors.KindConfig, "invalid processor order").Build()
	}
	return processor.NewChain(ordered...), nil
}

func (c *Config) processorConstraints() map[string]processor.Constraint {
	out := make(map[string]processor.Constraint, len(c.Processors))
	for name, pc := range c.Processors {
		if len(pc.Before) == 0 && len(pc.After) == 0 {
			continue
		}
		out[name] = processor.Constraint{Before: pc.Before, After: pc.After}
	}
	return out
}

// ResolvePaths makes relative file settings relative to base, normally the
// directory holding the config file.
func (c *Config) ResolvePaths(base string) {
	if base == "" || base == "." {
		return
	}
	c.dir = base
	if c.General.AssetsBaseDir == "" {
		c.General.AssetsBaseDir = "."
	}
	for _, p := range []*string{
		&c.General.OutputDir,
		&c.General.TemplatePath,
		&c.General.ContentDir,
		&c.General.AssetsBaseDir,
		&c.General.JSONLDBaseDir,
		&c.General.MetricsFile,
		&c.Logging.File,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}
