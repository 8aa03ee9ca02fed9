package vault

import "strings"

// Section is one body section: a second-level heading and everything up to
// the next second-level heading or end of text.
type Section struct {
	Heading string
	Content string
}

// Managed section headings, matched case-insensitively. Their content is
// regenerated from the record on every sync; all other sections belong to
// the user.
const (
	SectionNotes      = "Notes"
	SectionParameters = "Parameters"
	SectionUserProps  = "Custom Properties"
	SectionAssets     = "Linked Assets"
)

// managedHeadings is the lookup set for managed section names, lowercased.
var managedHeadings = map[string]bool{
	strings.ToLower(SectionNotes):      true,
	strings.ToLower(SectionParameters): true,
	strings.ToLower(SectionUserProps):  true,
	strings.ToLower(SectionAssets):     true,
}

// IsManagedHeading reports whether heading names a machine-managed section.
func IsManagedHeading(heading string) bool {
	return managedHeadings[strings.ToLower(strings.TrimSpace(heading))]
}

// SplitSections splits a body into its leading preamble (text before the
// first second-level heading) and an ordered list of sections. Section
// content includes its trailing newlines, so re-joining preamble and
// sections reproduces the input byte for byte.
func SplitSections(body string) (preamble string, sections []Section) {
	lines := strings.SplitAfter(body, "\n")

	var current *Section
	var buf strings.Builder
	flush := func() {
		if current == nil {
			preamble = buf.String()
		} else {
			current.Content = buf.String()
			sections = append(sections, *current)
		}
		buf.Reset()
	}

	for _, line := range lines {
		if heading, ok := headingText(line); ok {
			flush()
			current = &Section{Heading: heading}
		}
		buf.WriteString(line)
	}
	flush()
	return preamble, sections
}

// headingText extracts the text of a "## " heading line, reporting whether
// the line is one. Deeper headings (###...) stay inside their section.
func headingText(line string) (string, bool) {
	trimmed := strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(trimmed, "## ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, "## ")), true
}

// MergeBody rebuilds a document body: the prior body's headingless preamble
// (user content) stays on top, the given managed sections follow in the
// order supplied (the canonical order), then every user-owned section of the
// prior body follows verbatim in first-encountered order. Managed sections
// found in the prior body are discarded. The preamble must stay ahead of the
// managed block; anything after it would be swallowed by the last managed
// section on the next run's split.
func MergeBody(existing string, managed []Section) string {
	preamble, prior := SplitSections(existing)

	var b strings.Builder
	if strings.TrimSpace(preamble) != "" {
		b.WriteString(preamble)
		if !strings.HasSuffix(preamble, "\n") {
			b.WriteString("\n")
		}
	}

	for _, sec := range managed {
		b.WriteString("## ")
		b.WriteString(sec.Heading)
		b.WriteString("\n")
		b.WriteString(sec.Content)
		if !strings.HasSuffix(sec.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, sec := range prior {
		if IsManagedHeading(sec.Heading) {
			continue
		}
		b.WriteString(sec.Content)
	}
	return b.String()
}
