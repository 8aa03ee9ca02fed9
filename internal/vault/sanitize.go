package vault

import (
	"strings"
	"unicode"
)

// MaxNameLength is the maximum length (in runes) of a sanitized path
// segment. Longer names are truncated with an ellipsis so deep hierarchies
// stay under filesystem path limits.
const MaxNameLength = 120

// ellipsis marks a truncated name.
const ellipsis = "…"

// forbidden is the fixed character set replaced by hyphens.
const forbidden = `<>:/|?*"\`

// SanitizeName maps an arbitrary display string to a safe path segment.
// The mapping is deterministic and idempotent: SanitizeName(SanitizeName(x))
// always equals SanitizeName(x).
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)

	var b strings.Builder
	b.Grow(len(name))

	// Replace forbidden characters with hyphens and whitespace runs with a
	// single underscore.
	inSpace := false
	for _, r := range name {
		switch {
		case strings.ContainsRune(forbidden, r):
			b.WriteByte('-')
			inSpace = false
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
		default:
			b.WriteRune(r)
			inSpace = false
		}
	}

	// Collapse hyphen runs, then strip leading/trailing hyphens.
	out := collapseHyphens(b.String())
	out = strings.Trim(out, "-")

	runes := []rune(out)
	if len(runes) > MaxNameLength {
		out = string(runes[:MaxNameLength-1])
		// Truncation can expose a trailing hyphen; keep the result stable
		// under a second sanitize pass.
		out = strings.TrimRight(out, "-") + ellipsis
	}
	return out
}

func collapseHyphens(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// SanitizePath sanitizes each slash-separated segment of a hierarchical
// location path, dropping empty segments.
func SanitizePath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if s := SanitizeName(seg); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
