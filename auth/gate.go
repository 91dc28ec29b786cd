package auth

import "strings"

// RequireAuth reports whether the given request path must present
// credentials, given the configured list of open (unauthenticated)
// paths. The gate fails closed: an empty path or an empty list always
// requires auth.
//
// Entries ending in '*' are prefix wildcards matched against the raw
// path; every other entry is compared trailing-slash-insensitively. The
// first matching entry wins.
func RequireAuth(path string, openPaths []string) bool {
	if path == "" || len(openPaths) == 0 {
		return true
	}
	normalized := path
	if !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	for _, entry := range openPaths {
		if strings.HasSuffix(entry, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(entry, "*")) {
				return false
			}
			continue
		}
		if !strings.HasSuffix(entry, "/") {
			entry += "/"
		}
		if normalized == entry {
			return false
		}
	}
	return true
}
