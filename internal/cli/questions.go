package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/geocine/geossg/internal/config"
)

// FillInitOptionsInteractive prompts on out and reads answers from in,
// keeping the current value for every blank answer. At end of input the
// remaining defaults are kept.
func FillInitOptionsInteractive(opts *InitOptions, in io.Reader, out io.Writer) {
	opts.defaults()
	reader := bufio.NewReader(in)
	ask := func(prompt, current string) string {
		fmt.Fprintf(out, "%s [%s]: ", prompt, current)
		s, _ := reader.ReadString('\n')
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return current
	}

	dir := ask("Directory name", opts.Dir)
	if dir != opts.Dir && opts.SiteName == defaultSiteName(opts.Dir) {
		opts.SiteName = defaultSiteName(dir)
	}
	opts.Dir = dir
	opts.SiteName = ask("Site name", opts.SiteName)
	opts.Domain = ask("Domain (blank for none)", opts.Domain)
	opts.Language = ask("Default language", opts.Language)

	switch f := config.Format(strings.ToLower(ask("Config format (toml/yaml/json)", string(opts.Format)))); f {
	case config.FormatTOML, config.FormatYAML, config.FormatJSON:
		opts.Format = f
	default:
		fmt.Fprintf(out, "Unknown format %q, keeping %s\n", f, opts.Format)
	}
}

func defaultSiteName(dir string) string {
	o := InitOptions{Dir: dir}
	o.defaults()
	return o.SiteName
}
