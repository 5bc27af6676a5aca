package generator

import (
	"golang.org/x/net/html"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
)

const (
	RobotsName    = "robots_meta"
	DefaultRobots = "index, follow"
)

// RobotsMetaGenerator emits the robots directive.
type RobotsMetaGenerator struct {
	DefaultRobots string
}

func (g *RobotsMetaGenerator) Name() string { return RobotsName }

func (g *RobotsMetaGenerator) SupportedOutputs() []string {
	return []string{RobotsName, "robots"}
}

func (g *RobotsMetaGenerator) Generate(key, _, _ string, md metadata.Metadata) (string, error) {
	switch key {
	case RobotsName:
		return metaName("robots", g.value(md)), nil
	case "robots":
		return html.EscapeString(g.value(md)), nil
	}
	return "", ssgerrors.UnsupportedKey(RobotsName, key)
}

func (g *RobotsMetaGenerator) value(md metadata.Metadata) string {
	if v, ok := md.First("robots"); ok {
		return v
	}
	if g.DefaultRobots != "" {
		return g.DefaultRobots
	}
	return DefaultRobots
}
