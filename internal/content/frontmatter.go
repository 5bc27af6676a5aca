package content

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/geocine/geossg/internal/metadata"
)

// Front matter must start at the very beginning of the file:
// YAML between --- delimiters, TOML between +++ delimiters.
var (
	yamlFrontMatter = regexp.MustCompile(`(?sm)\A---[ \t]*\r?\n(.*?)^---[ \t]*\r?$(?:\r?\n)*`)
	tomlFrontMatter = regexp.MustCompile(`(?sm)\A\+\+\+[ \t]*\r?\n(.*?)^\+\+\+[ \t]*\r?$(?:\r?\n)*`)
)

// FrontMatter is the parsed header of a content file.
type FrontMatter struct {
	Format string
	Fields map[string]any
}

// SplitFrontMatter separates the front matter block from the body. Content
// without front matter is returned unchanged with a nil FrontMatter.
func SplitFrontMatter(src string) (*FrontMatter, string, error) {
	if m := yamlFrontMatter.FindStringSubmatchIndex(src); m != nil {
		fields := make(map[string]any)
		if err := yaml.Unmarshal([]byte(src[m[2]:m[3]]), &fields); err != nil {
			return nil, "", fmt.Errorf("failed to parse YAML front matter: %w", err)
		}
		return &FrontMatter{Format: "yaml", Fields: fields}, src[m[1]:], nil
	}

	if m := tomlFrontMatter.FindStringSubmatchIndex(src); m != nil {
		fields := make(map[string]any)
		if err := toml.Unmarshal([]byte(src[m[2]:m[3]]), &fields); err != nil {
			return nil, "", fmt.Errorf("failed to parse TOML front matter: %w", err)
		}
		return &FrontMatter{Format: "toml", Fields: fields}, src[m[1]:], nil
	}

	return nil, src, nil
}

// Metadata flattens the fields into string metadata. Nested tables use dotted
// keys and lists are joined with ", ".
func (fm *FrontMatter) Metadata() metadata.Metadata {
	md := make(metadata.Metadata)
	if fm == nil {
		return md
	}
	flatten(md, "", fm.Fields)
	return md
}

func flatten(md metadata.Metadata, prefix string, fields map[string]any) {
	for k, v := range fields {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(md, key, nested)
			continue
		}
		md[key] = scalarString(v)
	}
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, scalarString(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+scalarString(x[k]))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
