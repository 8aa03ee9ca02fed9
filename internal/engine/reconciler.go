package engine

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wavebeam/wwvault/internal/frontmatter"
	"github.com/wavebeam/wwvault/internal/vault"
	"github.com/wavebeam/wwvault/internal/wwise"
)

// Action is the filesystem effect the reconciler decided on for one record.
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionMove
	ActionSkip

	// ActionError is never produced by the reconciler; the driver reports it
	// to progress observers when a record fails outright.
	ActionError
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionMove:
		return "move"
	case ActionSkip:
		return "skip"
	case ActionError:
		return "error"
	default:
		return "unknown"
	}
}

// Resolution is the reconciler's decision for one record: what to do, where
// the document goes, and the full merged text to write there. OldPath is set
// only for moves; SkipReason only for skips.
type Resolution struct {
	Action     Action
	TargetPath string
	OldPath    string
	Content    string
	SkipReason string
}

// Reconciler resolves records against the identity index built from the
// existing vault. The index is read-only for the reconciler's lifetime; the
// only per-run mutable state it consults is the written-targets registry the
// driver threads through Reconcile.
type Reconciler struct {
	// OutputRoot is the directory all target paths are computed under.
	OutputRoot string

	// ExportedAt is the run's export timestamp, stamped into every document's
	// last-synced header key.
	ExportedAt string

	// Index is the prior state of the vault, built once per run.
	Index *vault.Index
}

// TargetPath computes where rec's document belongs: each segment of the
// record's hierarchy path sanitized, under the output root, with the
// sanitized display name as filename. Pure function of the record.
func (r *Reconciler) TargetPath(rec *wwise.Record) string {
	parts := append([]string{r.OutputRoot}, vault.SanitizePath(rec.Path)...)
	parts = append(parts, vault.SanitizeName(rec.Name)+vault.Extension)
	return filepath.Join(parts...)
}

// Reconcile resolves one record to a Resolution. written maps target paths
// already produced earlier in this run to the record ID that produced them,
// so two records whose names sanitize to the same path in one batch cannot
// overwrite each other.
//
// Identity resolution order: identifier match first (never skipped for a
// name collision), then filename match (claim when unclaimed, skip when
// claimed by a different identifier), else create.
func (r *Reconciler) Reconcile(rec *wwise.Record, written map[string]string) (*Resolution, error) {
	target := r.TargetPath(rec)

	if prevID, ok := written[target]; ok && prevID != rec.ID {
		return &Resolution{
			Action:     ActionSkip,
			TargetPath: target,
			SkipReason: fmt.Sprintf("target path already written this run for record %s", prevID),
		}, nil
	}

	var prior *vault.DocRef
	if ref, ok := r.Index.ByID[rec.ID]; ok {
		prior = ref
	} else if ref, ok := r.Index.ByFilename[vault.SanitizeName(rec.Name)]; ok {
		if ref.ID != "" && ref.ID != rec.ID {
			return &Resolution{
				Action:     ActionSkip,
				TargetPath: target,
				SkipReason: fmt.Sprintf("filename collision with document %s (id %s)", ref.Path, ref.ID),
			}, nil
		}
		// Unclaimed placeholder: claim it, injecting the identifier.
		prior = ref
	}

	var existing *vault.Document
	if prior != nil {
		doc, err := vault.ReadDocument(prior.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load prior document: %w", err)
		}
		existing = doc
	}

	content := r.compose(rec, existing)

	res := &Resolution{TargetPath: target, Content: content}
	switch {
	case prior == nil:
		res.Action = ActionCreate
	case prior.Path == target:
		res.Action = ActionUpdate
	default:
		res.Action = ActionMove
		res.OldPath = prior.Path
	}
	return res, nil
}

// compose builds the full document text for rec, layered over the prior
// document when one exists. Machine header keys are overwritten from the
// record; user header keys and user body sections are carried forward.
func (r *Reconciler) compose(rec *wwise.Record, existing *vault.Document) string {
	props := frontmatter.Properties{}
	body := ""
	if existing != nil {
		for k, v := range existing.Props {
			props[k] = v
		}
		body = existing.Body
	}

	// The record is authoritative for every machine key, including absence:
	// a key the record no longer has a value for is dropped.
	for _, key := range vault.MachineKeys {
		delete(props, key)
	}
	props[vault.KeyID] = rec.ID
	props[vault.KeyName] = rec.Name
	if rec.Path != "" {
		props[vault.KeyPath] = rec.Path
	}
	if rec.Scope != "" {
		props[vault.KeyScope] = string(rec.Scope)
	}
	if rec.Playback != "" {
		props[vault.KeyPlayback] = string(rec.Playback)
	}
	if len(rec.Tags) > 0 {
		props[vault.KeyTags] = rec.Tags
	}
	props[vault.KeyLastSynced] = r.ExportedAt

	keys := append([]string{}, vault.MachineKeys...)
	var userKeys []string
	for k := range props {
		if !isMachineKey(k) {
			userKeys = append(userKeys, k)
		}
	}
	sort.Strings(userKeys)
	keys = append(keys, userKeys...)

	header := frontmatter.FormatHeader(keys, props)
	merged := vault.MergeBody(body, managedSections(rec))
	return header + merged
}

func isMachineKey(key string) bool {
	for _, k := range vault.MachineKeys {
		if k == key {
			return true
		}
	}
	return false
}

// managedSections renders the machine-owned body sections in canonical
// order. A section with no content in the record is omitted entirely, so
// clearing a field upstream removes its section on the next sync.
func managedSections(rec *wwise.Record) []vault.Section {
	var sections []vault.Section

	if strings.TrimSpace(rec.Notes) != "" {
		sections = append(sections, vault.Section{
			Heading: vault.SectionNotes,
			Content: rec.Notes,
		})
	}

	if len(rec.Parameters) > 0 {
		var b strings.Builder
		b.WriteString("| Name | Type | Min | Max | Default | Values |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for _, p := range rec.Parameters {
			if p.Type == "switch" {
				fmt.Fprintf(&b, "| %s | %s | | | | %s |\n",
					p.Name, p.Type, strings.Join(p.Values, ", "))
			} else {
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | |\n",
					p.Name, p.Type, num(p.Min), num(p.Max), num(p.Default))
			}
		}
		sections = append(sections, vault.Section{
			Heading: vault.SectionParameters,
			Content: b.String(),
		})
	}

	if len(rec.UserProps) > 0 {
		var b strings.Builder
		b.WriteString("| Key | Value | Type |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, up := range rec.UserProps {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", up.Key, up.Value, up.Type)
		}
		sections = append(sections, vault.Section{
			Heading: vault.SectionUserProps,
			Content: b.String(),
		})
	}

	if len(rec.Assets) > 0 {
		var b strings.Builder
		for _, a := range rec.Assets {
			switch {
			case a.StorePath != "" && a.SourcePath != "":
				fmt.Fprintf(&b, "- `%s` (source: `%s`)\n", a.StorePath, a.SourcePath)
			case a.StorePath != "":
				fmt.Fprintf(&b, "- `%s`\n", a.StorePath)
			default:
				fmt.Fprintf(&b, "- `%s`\n", a.SourcePath)
			}
		}
		sections = append(sections, vault.Section{
			Heading: vault.SectionAssets,
			Content: b.String(),
		})
	}

	return sections
}

// num formats a bound without trailing zero noise.
func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
