package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

// TestBuildIndex verifies both lookup structures over a small corpus.
func TestBuildIndex(t *testing.T) {
	root := t.TempDir()
	claimed := writeDoc(t, root, "SFX/Explosion_Far.md",
		"---\nwwise-id: \"{abc-1}\"\n---\nbody\n")
	unclaimed := writeDoc(t, root, "Ambient/Wind.md", "no header here\n")
	writeDoc(t, root, "notes.txt", "not a document\n")

	idx, err := BuildIndex(root, nil)
	if err != nil {
		t.Fatalf("BuildIndex() failed: %v", err)
	}

	if idx.Size() != 2 {
		t.Errorf("Size() = %d, want 2", idx.Size())
	}

	ref, ok := idx.ByID["{abc-1}"]
	if !ok {
		t.Fatal("claimed document missing from ByID")
	}
	if ref.Path != claimed {
		t.Errorf("ByID path = %q, want %q", ref.Path, claimed)
	}

	ref, ok = idx.ByFilename["Wind"]
	if !ok {
		t.Fatal("unclaimed document missing from ByFilename")
	}
	if ref.ID != "" {
		t.Errorf("unclaimed document has ID %q", ref.ID)
	}
	if ref.Path != unclaimed {
		t.Errorf("ByFilename path = %q, want %q", ref.Path, unclaimed)
	}

	if _, ok := idx.ByFilename["notes"]; ok {
		t.Error("non-markdown file leaked into index")
	}
}

// TestBuildIndex_DuplicateFilenames verifies last-write-wins registration
// when two documents share a basename.
func TestBuildIndex_DuplicateFilenames(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "A/Wind.md", "---\nwwise-id: \"{a}\"\n---\n")
	writeDoc(t, root, "B/Wind.md", "---\nwwise-id: \"{b}\"\n---\n")

	idx, err := BuildIndex(root, nil)
	if err != nil {
		t.Fatalf("BuildIndex() failed: %v", err)
	}

	// Exactly one wins the byFilename slot; both stay reachable by ID.
	if _, ok := idx.ByFilename["Wind"]; !ok {
		t.Fatal("no document registered under Wind")
	}
	if len(idx.ByID) != 2 {
		t.Errorf("ByID size = %d, want 2", len(idx.ByID))
	}
}

// TestBuildIndex_MissingRoot verifies an absent corpus yields an empty
// index, not an error.
func TestBuildIndex_MissingRoot(t *testing.T) {
	idx, err := BuildIndex(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	if err != nil {
		t.Fatalf("BuildIndex() on missing root failed: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("Size() = %d, want 0", idx.Size())
	}
}

// TestBuildIndex_SkipsHiddenDirs verifies dot-directories (state dirs,
// editor caches) are not scanned.
func TestBuildIndex_SkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, ".obsidian/cache.md", "---\nwwise-id: \"{x}\"\n---\n")

	idx, err := BuildIndex(root, nil)
	if err != nil {
		t.Fatalf("BuildIndex() failed: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("hidden directory document indexed, Size() = %d", idx.Size())
	}
}
