package vault

import (
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
)

// DocRef points at one existing document: where it currently lives and the
// machine identifier from its header ("" when unclaimed).
type DocRef struct {
	Path string
	ID   string
}

// Index holds the two lookup structures the reconciler resolves identity
// against. It is built once per sync run and never mutated afterwards.
type Index struct {
	// ByID maps machine identifier to document, only for documents that
	// carry one.
	ByID map[string]*DocRef

	// ByFilename maps basename (without extension) to document, for every
	// document. When two documents share a basename the later-scanned one
	// wins; this last-write-wins registration is accepted behavior, not a
	// bug to fix.
	ByFilename map[string]*DocRef
}

// BuildIndex scans root for documents and builds the identity index.
// Documents whose header fails to parse are indexed as unclaimed rather
// than skipped. A nil logger suppresses duplicate-filename notices.
func BuildIndex(root string, logger *log.Logger) (*Index, error) {
	idx := &Index{
		ByID:       make(map[string]*DocRef),
		ByFilename: make(map[string]*DocRef),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil {
				// Root itself is missing: an empty corpus, not a failure.
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), Extension) {
			return nil
		}

		doc, err := ReadDocument(path)
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", path, err)
		}

		ref := &DocRef{Path: path, ID: doc.ID()}
		name := doc.Basename()
		if prev, ok := idx.ByFilename[name]; ok && logger != nil {
			logger.Printf("index: filename %q claimed by %s, replacing %s", name, path, prev.Path)
		}
		idx.ByFilename[name] = ref
		if ref.ID != "" {
			idx.ByID[ref.ID] = ref
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault: %w", err)
	}

	return idx, nil
}

// Size returns the number of indexed documents.
func (idx *Index) Size() int {
	return len(idx.ByFilename)
}
