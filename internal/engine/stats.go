// Package engine implements the reconciliation core: resolving each export
// record against the existing vault, deciding create/update/move/skip, and
// committing the resulting filesystem effects.
package engine

// SkipReason records why one record could not be reconciled. Skips are a
// designed outcome, not errors; they are collected here and surfaced in one
// aggregate warning after the run.
type SkipReason struct {
	ID     string
	Name   string
	Reason string
}

// Stats counts the outcomes of one sync run. Counters reset every run and
// are not persisted by the engine itself.
type Stats struct {
	Created int
	Updated int
	Moved   int
	Skipped int
	Errors  int

	Skips []SkipReason
}

// Total returns the number of records processed, whatever the outcome.
func (s *Stats) Total() int {
	return s.Created + s.Updated + s.Moved + s.Skipped + s.Errors
}
