package metadata

import "strings"

// Resolve starts from a copy of global and overlays the entry registered for
// the exact path, if any. Unknown paths yield global unchanged.
func Resolve(global map[string]string, routes map[string]map[string]string, path string) Metadata {
	out := Metadata(global).Clone()
	if entry, ok := routes[path]; ok {
		out.Merge(entry)
	}
	return out
}

// ResolveInherited is like Resolve but also overlays every ancestor path's
// entry, most general first: "/", "/de", "/de/page". Each level matches both
// with and without a trailing slash.
func ResolveInherited(global map[string]string, routes map[string]map[string]string, path string) Metadata {
	out := Metadata(global).Clone()
	for _, p := range Ancestors(path) {
		if entry, ok := routes[p]; ok {
			out.Merge(entry)
		}
		if p != "/" {
			if entry, ok := routes[p+"/"]; ok {
				out.Merge(entry)
			}
		}
	}
	return out
}

// Ancestors lists path and its parents from the root down, without trailing slashes.
//
//	Ancestors("/de/page/") == []string{"/", "/de", "/de/page"}
func Ancestors(path string) []string {
	out := []string{"/"}
	cur := ""
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		cur += "/" + seg
		out = append(out, cur)
	}
	return out
}
