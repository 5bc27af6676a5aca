// Package cli holds the interactive pieces of the command line: scaffolding
// a new site and prompting for its settings.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/geocine/geossg/internal/config"
	"github.com/geocine/geossg/internal/utils"
)

// InitOptions captures options for scaffolding a new site
type InitOptions struct {
	Dir      string        // default: my-site
	SiteName string        // defaults to Dir
	Domain   string        // optional; enables canonical URLs and the sitemap
	Language string        // default: en
	Format   config.Format // default: toml
	Force    bool          // overwrite an existing config file
}

type scaffoldGeneral struct {
	OutputDir          string `toml:"output_dir" yaml:"output_dir" json:"output_dir"`
	ContentDir         string `toml:"content_dir" yaml:"content_dir" json:"content_dir"`
	TemplatePath       string `toml:"template_path" yaml:"template_path" json:"template_path"`
	SiteName           string `toml:"site_name" yaml:"site_name" json:"site_name"`
	Domain             string `toml:"domain,omitempty" yaml:"domain,omitempty" json:"domain,omitempty"`
	DefaultLanguage    string `toml:"default_language" yaml:"default_language" json:"default_language"`
	DefaultDescription string `toml:"default_description" yaml:"default_description" json:"default_description"`
	DefaultRobots      string `toml:"default_robots" yaml:"default_robots" json:"default_robots"`
}

type scaffoldConfig struct {
	General             scaffoldGeneral                   `toml:"general" yaml:"general" json:"general"`
	GlobalMetadata      map[string]string                 `toml:"global_metadata" yaml:"global_metadata" json:"global_metadata"`
	Routes              []config.RouteConfig              `toml:"routes" yaml:"routes" json:"routes"`
	ParameterizedRoutes []config.ParameterizedRouteConfig `toml:"parameterized_routes" yaml:"parameterized_routes" json:"parameterized_routes"`
}

const baseTemplate = `<!DOCTYPE html>
<html lang="{{lang}}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title data-ssg-placeholder="title_tag"></title>
  <meta data-ssg-placeholder="meta_tags">
  <meta data-ssg-placeholder="robots_meta">
  <link data-ssg-placeholder="canonical_links">
  <meta data-ssg-placeholder="open_graph">
  <meta data-ssg-placeholder="twitter_card">
  <script data-ssg-placeholder="json_ld"></script>
</head>
<body>
  <header><a href="/">{{site_name}}</a></header>
  <main data-ssg="content"></main>
</body>
</html>
`

const indexPage = `---
title: Welcome
description: The home page of %s.
---
# Welcome

This page was generated by geossg. Edit content/index.md to change it.
`

const docPage = `+++
title = "Getting started"
+++
# Getting started

Pages under content/ map to routes by file name.
`

func (o *InitOptions) defaults() {
	if o.Dir == "" {
		o.Dir = "my-site"
	}
	if o.SiteName == "" {
		o.SiteName = filepath.Base(o.Dir)
	}
	if o.Language == "" {
		o.Language = "en"
	}
	if o.Format == "" {
		o.Format = config.FormatTOML
	}
}

// ConfigFile is the path of the config file Init writes.
func (o InitOptions) ConfigFile() string {
	o.defaults()
	return filepath.Join(o.Dir, "ssg."+string(o.Format))
}

// Init scaffolds a new site at opts.Dir and returns the config file path.
func Init(opts InitOptions) (string, error) {
	opts.defaults()
	cfgPath := opts.ConfigFile()
	if utils.FileExists(cfgPath) && !opts.Force {
		return "", fmt.Errorf("config file '%s' already exists (use --force to overwrite)", cfgPath)
	}

	defaults := config.DefaultGeneralConfig()
	scaffold := scaffoldConfig{
		General: scaffoldGeneral{
			OutputDir:          defaults.OutputDir,
			ContentDir:         defaults.ContentDir,
			TemplatePath:       "templates/base.html",
			SiteName:           opts.SiteName,
			Domain:             opts.Domain,
			DefaultLanguage:    opts.Language,
			DefaultDescription: fmt.Sprintf("%s, built with geossg.", opts.SiteName),
			DefaultRobots:      "index, follow",
		},
		GlobalMetadata: map[string]string{"lang": opts.Language},
		Routes: []config.RouteConfig{
			{Path: "/about", Metadata: map[string]string{"title": "About", "json_ld_type": "AboutPage"}},
		},
		ParameterizedRoutes: []config.ParameterizedRouteConfig{{
			Pattern:    "/topics/:topic",
			Parameters: []config.ParameterDefinition{{Name: "topic", Values: []string{"news", "guides"}}},
			Metadata:   map[string]string{"title": "Topic: {topic}"},
		}},
	}
	data, err := config.Encode(scaffold, opts.Format)
	if err != nil {
		return "", err
	}

	files := []struct {
		path string
		data []byte
	}{
		{cfgPath, data},
		{filepath.Join(opts.Dir, "templates", "base.html"), []byte(baseTemplate)},
		{filepath.Join(opts.Dir, defaults.ContentDir, "index.md"), []byte(fmt.Sprintf(indexPage, opts.SiteName))},
		{filepath.Join(opts.Dir, defaults.ContentDir, "docs", "getting-started.md"), []byte(docPage)},
		{filepath.Join(opts.Dir, ".gitignore"), []byte(defaults.OutputDir + "/\n")},
	}
	for _, f := range files {
		if f.path != cfgPath && utils.FileExists(f.path) {
			continue
		}
		if err := utils.WriteFile(f.path, f.data); err != nil {
			return "", err
		}
	}
	return cfgPath, nil
}
