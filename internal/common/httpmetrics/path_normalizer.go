package httpmetrics

import (
	"regexp"
	"strings"
)

const (
	maxPathSegments  = 6
	paramPlaceholder = "{param}"
)

var (
	uuidSegment   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	numberSegment = regexp.MustCompile(`^[0-9]+$`)
	opaqueSegment = regexp.MustCompile(`^[A-Za-z0-9_\-.=]{24,}$`)
)

// NormalizePath turns a request path into a bounded metric label: ids and
// opaque tokens become {param}, trailing slashes go, and anything deeper
// than maxPathSegments is folded into "...".
func NormalizePath(path string) string {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) > maxPathSegments {
		parts = append(parts[:maxPathSegments], "...")
	}

	for i, part := range parts {
		if isParam(part) {
			parts[i] = paramPlaceholder
		}
	}

	return "/" + strings.Join(parts, "/")
}

func isParam(segment string) bool {
	return uuidSegment.MatchString(segment) ||
		numberSegment.MatchString(segment) ||
		opaqueSegment.MatchString(segment)
}
