// Package wwise models the event records exported from the authoring tool
// and parses the JSON export file they arrive in.
package wwise

import (
	"fmt"
	"strings"
)

// Scope says whether an event is posted globally or on a game object.
type Scope string

const (
	ScopeGlobal     Scope = "global"
	ScopeGameObject Scope = "gameobject"
)

// Playback distinguishes fire-and-forget events from looping ones.
type Playback string

const (
	PlaybackOneShot    Playback = "oneshot"
	PlaybackContinuous Playback = "continuous"
)

// GameParameter is one RTPC or switch attached to an event. Slider
// parameters carry numeric bounds; switch parameters carry the value list
// instead.
type GameParameter struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"` // slider, switch
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Default float64  `json:"default,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// UserProp is a free-form key/value/type triple authored on the event.
type UserProp struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// AssetRef links an event to one source audio file: the absolute path it
// was imported from and its relative path inside the asset store.
type AssetRef struct {
	SourcePath string `json:"source_path"`
	StorePath  string `json:"store_path"`
}

// Record is one event from the export, immutable for the duration of a
// sync run. ID is the Wwise object GUID and is stable across renames and
// moves; Name and Path are not.
type Record struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Path     string   `json:"path,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Scope    Scope    `json:"scope,omitempty"`
	Playback Playback `json:"playback,omitempty"`

	Parameters []GameParameter `json:"parameters,omitempty"`
	UserProps  []UserProp      `json:"user_props,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Assets     []AssetRef      `json:"assets,omitempty"`
}

// Validate checks the fields reconciliation depends on.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	switch r.Scope {
	case "", ScopeGlobal, ScopeGameObject:
	default:
		return fmt.Errorf("invalid scope %q", r.Scope)
	}
	switch r.Playback {
	case "", PlaybackOneShot, PlaybackContinuous:
	default:
		return fmt.Errorf("invalid playback %q", r.Playback)
	}
	for i, p := range r.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter %d has no name", i)
		}
	}
	return nil
}

// SetDefaults fills the enum fields when the export omits them.
func (r *Record) SetDefaults() {
	if r.Scope == "" {
		r.Scope = ScopeGlobal
	}
	if r.Playback == "" {
		r.Playback = PlaybackOneShot
	}
}
