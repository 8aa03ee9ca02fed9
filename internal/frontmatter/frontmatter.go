// Package frontmatter parses and serializes the delimited key/value header
// at the top of a vault document.
//
// Parsing is deliberately best-effort: a document with no header, a malformed
// header, or an unterminated header yields an empty property map and a body
// offset of 0, so hand-edited documents are tolerated rather than rejected.
// Serialization is deterministic so that re-running a sync with unchanged
// input produces byte-identical headers.
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Marker is the line that opens and closes a header block.
const Marker = "---"

// Properties holds the parsed header values. Values are either string
// (scalar) or []string (list); nothing else is produced by Parse.
type Properties map[string]any

// Scalar returns the value for key if it is a scalar string.
func (p Properties) Scalar(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// List returns the value for key if it is a string list.
func (p Properties) List(key string) ([]string, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	l, ok := v.([]string)
	return l, ok
}

// Parse extracts the header properties from text and returns them together
// with the byte offset at which the body starts.
//
// The header must begin with a marker line at position 0 and end at the next
// line consisting solely of the marker. Any failure mode (missing header,
// unterminated header, YAML that does not decode to a flat mapping of
// scalars and scalar lists) degrades silently: the whole document is treated
// as body.
func Parse(text string) (Properties, int) {
	block, bodyOffset, ok := headerBlock(text)
	if !ok {
		return Properties{}, 0
	}

	// Decode through yaml.Node rather than interface{} so scalar values keep
	// their literal string form ("08", "on", "1.0" stay strings).
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return Properties{}, 0
	}
	if len(root.Content) == 0 {
		return Properties{}, bodyOffset
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return Properties{}, 0
	}

	props := make(Properties, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valNode := mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			continue
		}
		key := keyNode.Value

		switch valNode.Kind {
		case yaml.ScalarNode:
			props[key] = strings.TrimSpace(valNode.Value)
		case yaml.SequenceNode:
			items := make([]string, 0, len(valNode.Content))
			scalarOnly := true
			for _, item := range valNode.Content {
				if item.Kind != yaml.ScalarNode {
					scalarOnly = false
					break
				}
				items = append(items, strings.TrimSpace(item.Value))
			}
			if scalarOnly {
				props[key] = items
			}
		default:
			// Nested mappings and the like are outside the document model;
			// keep the rest of the header rather than failing it wholesale.
		}
	}

	return props, bodyOffset
}

// headerBlock locates the delimited header. It returns the raw lines between
// the markers and the byte offset just past the closing marker line.
func headerBlock(text string) (block string, bodyOffset int, ok bool) {
	if text != Marker && !strings.HasPrefix(text, Marker+"\n") && !strings.HasPrefix(text, Marker+"\r\n") {
		return "", 0, false
	}

	// Offset of the first header line.
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		// "---" with no newline: unterminated.
		return "", 0, false
	}

	pos := nl + 1
	var b strings.Builder
	for pos <= len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		var line string
		var next int
		if lineEnd < 0 {
			line = text[pos:]
			next = len(text)
		} else {
			line = text[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		}

		if strings.TrimRight(line, "\r") == Marker {
			return b.String(), next, true
		}
		b.WriteString(line)
		b.WriteByte('\n')

		if lineEnd < 0 {
			break
		}
		pos = next
	}

	// No closing marker: unterminated header.
	return "", 0, false
}

// Format serializes a single property as header line(s). Scalars produce one
// "key: value" line; lists produce a "key:" introducer followed by one
// indented "- value" line per element. Unsupported value types render as an
// empty scalar.
func Format(key string, value any) string {
	var b strings.Builder
	switch v := value.(type) {
	case string:
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(escapeScalar(v))
		b.WriteByte('\n')
	case []string:
		b.WriteString(key)
		b.WriteString(":\n")
		for _, item := range v {
			b.WriteString("  - ")
			b.WriteString(escapeScalar(item))
			b.WriteByte('\n')
		}
	default:
		b.WriteString(key)
		b.WriteString(": \"\"\n")
	}
	return b.String()
}

// FormatHeader serializes a complete header block, keys emitted in the given
// order. Keys missing from props are skipped.
func FormatHeader(keys []string, props Properties) string {
	var b strings.Builder
	b.WriteString(Marker)
	b.WriteByte('\n')
	for _, key := range keys {
		v, ok := props[key]
		if !ok {
			continue
		}
		b.WriteString(Format(key, v))
	}
	b.WriteString(Marker)
	b.WriteByte('\n')
	return b.String()
}

// yamlSignificant is the fixed set of characters that force a scalar into
// quoted form.
const yamlSignificant = ":#'\"{}[]&*!|>%@`"

// escapeScalar renders a scalar value, double-quoting it when it is empty,
// carries leading/trailing whitespace, or contains a YAML-significant
// character. Backslashes and double quotes inside a quoted value are escaped.
func escapeScalar(s string) string {
	if !needsQuoting(s) {
		return s
	}
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	return `"` + escaped + `"`
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s, yamlSignificant) {
		return true
	}
	// Newlines cannot survive a single scalar line.
	return strings.ContainsAny(s, "\r\n")
}
