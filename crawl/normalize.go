package crawl

import (
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/docpipe"
)

// NormalizeURL canonicalizes a URL for deduplication: the fragment and
// query string are stripped, a trailing slash is collapsed, and the root
// path "/" normalizes to an empty path. Two URLs differing only by
// fragment, query or trailing slash normalize identically.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""

	if u.Path == "/" {
		u.Path = ""
	} else {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	return u.String()
}

// filter is the include/exclude glob policy applied to normalized URLs.
type filter struct {
	include []string
	exclude []string
}

// newFilter validates the glob patterns up front so a bad pattern fails the
// run before any fetch.
func newFilter(include, exclude []string) (*filter, error) {
	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, docpipe.Errorf(docpipe.EINVALID, "invalid URL pattern %q", pattern)
		}
	}
	return &filter{include: include, exclude: exclude}, nil
}

// allows reports whether the URL passes the policy: reject on any exclude
// match; when include patterns exist, require at least one match.
func (f *filter) allows(url string) bool {
	if matchesAny(url, f.exclude) {
		return false
	}
	if len(f.include) > 0 {
		return matchesAny(url, f.include)
	}
	return true
}

func matchesAny(url string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, url); err == nil && ok {
			return true
		}
	}
	return false
}
