package renderer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aymerick/raymond"
)

const redirectTemplate = `<!DOCTYPE html>
<html>
    <head>
        <meta charset="utf-8">
        <title>Redirecting...</title>
        <meta http-equiv="refresh" content="0; URL={{url}}">
        <meta name="robots" content="noindex">
        <link rel="canonical" href="{{url}}">
    </head>
    <body>
        <p>Redirecting to <a href="{{url}}">{{url}}</a>...</p>
    </body>
</html>
`

// Redirect sends visitors of From to the URL To.
type Redirect struct {
	From string
	To   string
}

var (
	redirectOnce sync.Once
	redirectTpl  *raymond.Template
	redirectErr  error
)

// Redirects normalizes the configured mapping, sorted by source path.
// Sources gain a leading slash; entries with an empty side are dropped.
func Redirects(mapping map[string]string) []Redirect {
	out := make([]Redirect, 0, len(mapping))
	for from, to := range mapping {
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if from == "" || to == "" {
			continue
		}
		if !strings.HasPrefix(from, "/") {
			from = "/" + from
		}
		out = append(out, Redirect{From: from, To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// RenderRedirect renders the redirect page for r. The page points search
// engines at the target with a canonical link and keeps itself out of the index.
func RenderRedirect(r Redirect) (string, error) {
	redirectOnce.Do(func() {
		redirectTpl, redirectErr = raymond.Parse(redirectTemplate)
	})
	if redirectErr != nil {
		return "", fmt.Errorf("failed to parse redirect template: %w", redirectErr)
	}
	return redirectTpl.Exec(map[string]any{"url": r.To})
}
