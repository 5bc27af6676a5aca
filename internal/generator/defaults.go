package generator

const (
	DefaultSiteName    = "My Site"
	DefaultDescription = "A website built with geossg."
	DefaultImage       = "/images/default-cover.jpg"
)

var DefaultKeywords = []string{"geossg", "static site", "seo"}

// Options configures the built-in generator set.
type Options struct {
	SiteName           string
	Domain             string
	DefaultDescription string
	DefaultKeywords    []string
	DefaultImage       string
	DefaultRobots      string
	TitleFormat        string
	TwitterSite        string
	DefaultLanguage    string
	CanonicalToDefault []string
	JSONLDBaseDir      string
	JSONLDDefaultType  string
}

// Builtins returns every built-in generator in their conventional order.
func Builtins(opts Options) []Generator {
	if opts.SiteName == "" {
		opts.SiteName = DefaultSiteName
	}
	if opts.DefaultDescription == "" {
		opts.DefaultDescription = DefaultDescription
	}
	if opts.DefaultKeywords == nil {
		opts.DefaultKeywords = DefaultKeywords
	}
	if opts.DefaultImage == "" {
		opts.DefaultImage = DefaultImage
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = DefaultLanguage
	}

	return []Generator{
		&TitleGenerator{Format: opts.TitleFormat},
		&MetaTagGenerator{
			DefaultDescription: opts.DefaultDescription,
			DefaultKeywords:    opts.DefaultKeywords,
		},
		&RobotsMetaGenerator{DefaultRobots: opts.DefaultRobots},
		&OpenGraphGenerator{
			SiteName:     opts.SiteName,
			DefaultImage: opts.DefaultImage,
			Domain:       opts.Domain,
		},
		&TwitterCardGenerator{
			Site:         opts.TwitterSite,
			DefaultImage: opts.DefaultImage,
		},
		&CanonicalLinkGenerator{
			Domain:             opts.Domain,
			DefaultLanguage:    opts.DefaultLanguage,
			CanonicalToDefault: opts.CanonicalToDefault,
		},
		&JSONLDGenerator{
			Domain:          opts.Domain,
			DefaultType:     opts.JSONLDDefaultType,
			BaseDir:         opts.JSONLDBaseDir,
			DefaultLanguage: opts.DefaultLanguage,
		},
	}
}

// ByName indexes generators by their main output key.
func ByName(gens []Generator) map[string]Generator {
	out := make(map[string]Generator, len(gens))
	for _, g := range gens {
		out[g.Name()] = g
	}
	return out
}
