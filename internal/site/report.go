package site

import (
	"sort"
	"time"

	ssgerrors "github.com/geocine/geossg/internal/errors"
)

// WrittenPage is a page that made it to disk.
type WrittenPage struct {
	Path      string
	File      string
	Canonical string
	LastMod   string
	NoIndex   bool
}

// PageFailure describes a page that was not written.
type PageFailure struct {
	Path      string
	Component string
	Kind      ssgerrors.Kind
	Err       error
}

// Report summarizes one build.
type Report struct {
	BuildID   string
	Started   time.Time
	Duration  time.Duration
	Written   []WrittenPage
	Failed    []PageFailure
	Redirects []string
	Sitemap   string
}

func newReport(id string, started time.Time) *Report {
	return &Report{BuildID: id, Started: started}
}

// OK reports whether every page was written.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// finish stamps the duration and sorts results.
func (r *Report) finish() *Report {
	r.Duration = time.Since(r.Started)
	r.sortResults()
	return r
}

// sortResults orders pages by path so reports are stable across runs.
func (r *Report) sortResults() {
	sort.Slice(r.Written, func(i, j int) bool { return r.Written[i].Path < r.Written[j].Path })
	sort.Slice(r.Failed, func(i, j int) bool { return r.Failed[i].Path < r.Failed[j].Path })
}

func newFailure(path string, err error) PageFailure {
	f := PageFailure{Path: path, Component: ssgerrors.ComponentOf(err), Err: err}
	if kind, ok := ssgerrors.KindOf(err); ok {
		f.Kind = kind
	}
	return f
}
