// Package urlutil provides helpers for the module URLs a loader requests.
package urlutil

import "regexp"

var (
	domainRe = regexp.MustCompile(`^(\w+:)?//[^/]+`)
	extRe    = regexp.MustCompile(`\.\w+$`)
)

// Parts holds a URL split into its domain prefix and path.
type Parts struct {
	// Domain is the scheme, "//" and host (e.g., "https://cdn.example.com"),
	// or empty for host-relative URLs.
	Domain string
	// Path is the rest of the URL including its leading slash.
	Path string
}

// String joins the parts back into a URL.
func (p Parts) String() string {
	return p.Domain + p.Path
}

// Split splits an absolute or protocol-relative URL into domain and path.
func Split(url string) Parts {
	domain := domainRe.FindString(url)
	return Parts{Domain: domain, Path: url[len(domain):]}
}

// HasDomain reports whether url carries a scheme-and-host or "//host" prefix.
func HasDomain(url string) bool {
	return domainRe.MatchString(url)
}

// TrimExt removes a trailing file extension such as ".js" or ".json".
func TrimExt(file string) string {
	return extRe.ReplaceAllString(file, "")
}

// HasExt reports whether file ends with a file extension.
func HasExt(file string) bool {
	return extRe.MatchString(file)
}

// EnsureExt appends ext unless url already ends with a file extension.
func EnsureExt(url, ext string) string {
	if HasExt(url) {
		return url
	}
	return url + ext
}
