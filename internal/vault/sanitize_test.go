package vault

import (
	"strings"
	"testing"
)

// TestSanitizeName covers the replacement, collapsing and trimming rules.
func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Explosion_Far", "Explosion_Far"},
		{"forbidden chars", `a<b>c:d/e|f?g*h"i\j`, "a-b-c-d-e-f-g-h-i-j"},
		{"whitespace run", "Door  Open\tSlow", "Door_Open_Slow"},
		{"hyphen run", "a--b---c", "a-b-c"},
		{"adjacent replacement hyphens", "a//b", "a-b"},
		{"leading trailing hyphens", "/name/", "name"},
		{"mixed", "SFX: Explosion / Far ", "SFX-_Explosion_-_Far"},
		{"empty", "", ""},
		{"only forbidden", "///", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitizeName_Truncation verifies long names are cut to MaxNameLength
// runes with an ellipsis marker.
func TestSanitizeName_Truncation(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := SanitizeName(long)

	if runes := []rune(got); len(runes) != MaxNameLength {
		t.Errorf("truncated length = %d runes, want %d", len(runes), MaxNameLength)
	}
	if !strings.HasSuffix(got, ellipsis) {
		t.Errorf("truncated name %q missing ellipsis suffix", got)
	}
}

// TestSanitizeName_Idempotent verifies sanitize(sanitize(x)) == sanitize(x)
// across awkward inputs, including ones that trigger truncation.
func TestSanitizeName_Idempotent(t *testing.T) {
	inputs := []string{
		"Explosion_Far",
		`a<b>c:d/e|f?g*h"i\j`,
		"  spaced   out  ",
		"--- leading hyphens ---",
		strings.Repeat("long/name ", 50),
		strings.Repeat("y", MaxNameLength) + "-tail",
		"",
	}

	for _, in := range inputs {
		once := SanitizeName(in)
		twice := SanitizeName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

// TestSanitizePath verifies per-segment sanitization and empty-segment
// handling.
func TestSanitizePath(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"SFX/Weapons", []string{"SFX", "Weapons"}},
		{"/SFX//Weapons/", []string{"SFX", "Weapons"}},
		{"Amb ient/Wind: Strong", []string{"Amb_ient", "Wind-_Strong"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := SanitizePath(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("SanitizePath(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SanitizePath(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
