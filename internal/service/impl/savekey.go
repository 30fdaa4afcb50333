package impl

import (
	"regexp"
	"strings"
)

var collapseWhitespace = regexp.MustCompile(`\s+`)

// normalizeSaveKey canonicalizes a save-key candidate: backslashes become
// forward slashes, whitespace runs collapse to one space, surrounding space is
// trimmed. The result is matched byte-exact (case-sensitive) per user.
func normalizeSaveKey(candidate string) string {
	key := strings.ReplaceAll(candidate, "\\", "/")
	key = collapseWhitespace.ReplaceAllString(key, " ")
	return strings.TrimSpace(key)
}

// normalizeLocalPath canonicalizes the device-local path a save was seen at:
// forward slashes, absolute, and with .netplay segments rewritten to their
// canonical equivalent so netplay-mode saves don't fork a second logical save.
func normalizeLocalPath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.ReplaceAll(p, "/.netplay/", "/")
	return p
}

// basename returns the final path segment, for display names.
func basename(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	p = strings.TrimSuffix(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return path
	}
	return p
}

// containsTraversal rejects paths that try to climb out of their tree.
func containsTraversal(path string) bool {
	for _, seg := range strings.Split(strings.ReplaceAll(path, "\\", "/"), "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
