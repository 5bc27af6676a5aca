package metadata

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Parameter is a named route placeholder and its ordered value domain.
type Parameter struct {
	Name   string
	Values []string
}

// Override is metadata applied when parameter Name takes Value.
type Override struct {
	Name     string
	Value    string
	Metadata map[string]string
}

// PatternRoute describes a route pattern such as "/item/:id" and its parameters.
type PatternRoute struct {
	Pattern    string
	Parameters []Parameter
	Metadata   map[string]string
	Overrides  []Override
}

// ExpandedRoute is one concrete page produced from a pattern.
type ExpandedRoute struct {
	Path     string
	Params   map[string]string
	Metadata Metadata
}

// Expander enumerates concrete routes for parameterized patterns.
type Expander struct {
	logger *zap.Logger
}

// NewExpander creates an expander. A nil logger is replaced by a no-op logger.
func NewExpander(logger *zap.Logger) *Expander {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expander{logger: logger}
}

// Expand returns one route per element of the Cartesian product of the
// parameter domains, in declared order. Metadata is layered, lowest first:
// global, pattern metadata, overrides per parameter in declared order (later
// parameters win), then param_<name> only where the key is still absent.
// A pattern without parameters yields no routes.
func (e *Expander) Expand(global map[string]string, route PatternRoute) []ExpandedRoute {
	if len(route.Parameters) == 0 {
		return nil
	}

	overrides := e.indexOverrides(route)

	var out []ExpandedRoute
	for _, combo := range product(route.Parameters) {
		md := Metadata(global).Clone()
		md.Merge(route.Metadata)

		params := make(map[string]string, len(combo))
		for i, p := range route.Parameters {
			value := combo[i]
			params[p.Name] = value
			if o, ok := overrides[overrideKey(p.Name, value)]; ok {
				md.Merge(o)
			}
		}
		for i, p := range route.Parameters {
			md.SetDefault("param_"+p.Name, combo[i])
		}

		out = append(out, ExpandedRoute{
			Path:     Substitute(route.Pattern, params),
			Params:   params,
			Metadata: md,
		})
	}
	return out
}

// indexOverrides keys overrides by name=value, dropping any whose value is
// outside the parameter's declared domain.
func (e *Expander) indexOverrides(route PatternRoute) map[string]map[string]string {
	domains := make(map[string][]string, len(route.Parameters))
	for _, p := range route.Parameters {
		domains[p.Name] = p.Values
	}

	index := make(map[string]map[string]string, len(route.Overrides))
	for _, o := range route.Overrides {
		values, known := domains[o.Name]
		if !known || !slices.Contains(values, o.Value) {
			e.logger.Warn("Ignoring metadata override outside parameter domain",
				zap.String("pattern", route.Pattern),
				zap.String("param", o.Name),
				zap.String("value", o.Value))
			continue
		}
		key := overrideKey(o.Name, o.Value)
		if existing, ok := index[key]; ok {
			merged := Metadata(existing).Clone()
			merged.Merge(o.Metadata)
			index[key] = merged
			continue
		}
		index[key] = o.Metadata
	}
	return index
}

// Substitute replaces each ":name" segment placeholder with its value.
// Placeholders with no value are left as-is.
func Substitute(pattern string, params map[string]string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if v, ok := params[seg[1:]]; ok {
			segments[i] = v
		}
	}
	return strings.Join(segments, "/")
}

// PlaceholderNames lists the ":name" placeholders in pattern, in order.
func PlaceholderNames(pattern string) []string {
	var names []string
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			names = append(names, seg[1:])
		}
	}
	return names
}

func overrideKey(name, value string) string {
	return name + "=" + value
}

// product enumerates value combinations with the last parameter varying fastest.
func product(params []Parameter) [][]string {
	combos := [][]string{{}}
	for _, p := range params {
		next := make([][]string, 0, len(combos)*len(p.Values))
		for _, c := range combos {
			for _, v := range p.Values {
				combo := make([]string, len(c), len(c)+1)
				copy(combo, c)
				next = append(next, append(combo, v))
			}
		}
		combos = next
	}
	return combos
}
