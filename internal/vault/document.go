// Package vault models the document tree the sync writes into: markdown
// files with a frontmatter header, machine-managed body sections, and
// user-owned sections that every sync preserves verbatim.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wavebeam/wwvault/internal/frontmatter"
)

// Machine-owned header keys. Every other header key belongs to the user and
// is carried across syncs untouched.
const (
	KeyID         = "wwise-id"
	KeyName       = "wwise-name"
	KeyPath       = "wwise-path"
	KeyScope      = "wwise-scope"
	KeyPlayback   = "wwise-playback"
	KeyTags       = "tags"
	KeyLastSynced = "last-synced"
)

// MachineKeys lists the machine-owned header keys in emission order.
var MachineKeys = []string{KeyID, KeyName, KeyPath, KeyScope, KeyPlayback, KeyTags, KeyLastSynced}

// Extension is the document file extension.
const Extension = ".md"

// Document is one persisted vault file: a path, parsed header properties,
// and the raw body text following the header.
type Document struct {
	Path  string
	Props frontmatter.Properties
	Body  string
}

// ReadDocument loads and parses the document at path. A missing or malformed
// header is not an error; the document simply has empty properties and its
// entire content as body.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	text := string(data)
	props, offset := frontmatter.Parse(text)
	return &Document{
		Path:  path,
		Props: props,
		Body:  text[offset:],
	}, nil
}

// ID returns the machine identifier from the header, or "" for an unclaimed
// document.
func (d *Document) ID() string {
	id, _ := d.Props.Scalar(KeyID)
	return id
}

// Basename returns the filename without directory or extension, the key the
// identity index registers documents under.
func (d *Document) Basename() string {
	return strings.TrimSuffix(filepath.Base(d.Path), Extension)
}

// WriteDocument writes content to path, creating parent directories on
// demand. The write goes through a temp file and rename so a crash never
// leaves a half-written document behind.
func WriteDocument(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
