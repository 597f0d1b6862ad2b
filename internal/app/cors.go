package app

import (
	"net/url"
	"strings"
)

// originAllowed reports whether origin matches one of the configured patterns.
func originAllowed(patterns []string, origin string) bool {
	host := originHost(origin)
	for _, pattern := range patterns {
		if matchOrigin(pattern, host) {
			return true
		}
	}
	return false
}

// originHost returns the "host[:port]" part of an origin URL.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOrigin supports exact hosts, "*.example.com" and "localhost:*".
func matchOrigin(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
