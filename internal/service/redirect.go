package service

import (
	"net/url"
	"strings"
)

// ResolveRedirect maps a requested post-auth destination to a safe URL on
// origin. Relative paths are kept, same-origin absolute URLs are kept, and
// everything else collapses to origin.
func ResolveRedirect(target, origin string) string {
	origin = strings.TrimSuffix(origin, "/")

	if strings.HasPrefix(target, "/") {
		// "//host" and "/\host" are treated as hosts by browsers
		if strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
			return origin
		}
		return origin + target
	}

	t, err := url.Parse(target)
	if err != nil || t.Scheme == "" || t.Host == "" {
		return origin
	}
	o, err := url.Parse(origin)
	if err != nil {
		return origin
	}

	if strings.EqualFold(t.Scheme, o.Scheme) && strings.EqualFold(t.Host, o.Host) {
		return target
	}
	return origin
}
