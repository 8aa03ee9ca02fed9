package vault

import (
	"os"
	"path/filepath"
	"testing"
)

// TestReadDocument verifies header/body splitting on a well-formed document.
func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Explosion_Far.md")
	content := "---\nwwise-id: \"{abc-1}\"\nwwise-name: Explosion_Far\n---\n## Notes\nboom\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	doc, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument() failed: %v", err)
	}

	if doc.ID() != "{abc-1}" {
		t.Errorf("ID() = %q, want %q", doc.ID(), "{abc-1}")
	}
	if doc.Basename() != "Explosion_Far" {
		t.Errorf("Basename() = %q, want %q", doc.Basename(), "Explosion_Far")
	}
	if doc.Body != "## Notes\nboom\n" {
		t.Errorf("Body = %q", doc.Body)
	}
}

// TestReadDocument_NoHeader verifies a headerless file reads as an unclaimed
// document whose whole content is body.
func TestReadDocument_NoHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loose.md")
	content := "hand-written file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	doc, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument() failed: %v", err)
	}
	if doc.ID() != "" {
		t.Errorf("ID() = %q, want empty", doc.ID())
	}
	if doc.Body != content {
		t.Errorf("Body = %q, want %q", doc.Body, content)
	}
}

// TestWriteDocument verifies parent creation and content round trip.
func TestWriteDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SFX", "Weapons", "Explosion_Far.md")

	if err := WriteDocument(path, "content\n"); err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(data) != "content\n" {
		t.Errorf("content = %q", string(data))
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still present")
	}
}
