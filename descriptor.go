package addon

import (
	"context"
	"math"
)

// Category identifies the broad kind of a world entity. Only units and
// game objects are interactable; everything else is dropped by the
// snapshot provider before it reaches the engine.
type Category string

const (
	CategoryUnit       Category = "unit"
	CategoryGameObject Category = "gameobject"
)

// Position is a point in the host's world space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the full 3D Euclidean distance to other.
func (p Position) Distance(other Position) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	dz := other.Z - p.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PlanarDistance returns the horizontal-plane distance to other,
// ignoring vertical offset.
func (p Position) PlanarDistance(other Position) float64 {
	return math.Hypot(other.X-p.X, other.Y-p.Y)
}

// Descriptor is a read-only snapshot of one nearby entity. Descriptors
// are captured once per invocation and discarded after the cycle; no
// engine component mutates them.
type Descriptor struct {
	// Identity is an opaque stable identifier within the snapshot,
	// passed through verbatim to the native interaction primitives.
	Identity string `json:"identity"`
	// TemplateID is the numeric kind identifier used for blacklist
	// matching. Only meaningful for game objects.
	TemplateID uint32   `json:"templateId"`
	Category   Category `json:"category"`
	Position   Position `json:"position"`
	// Alive is meaningful only for units.
	Alive bool `json:"alive,omitempty"`
	// Lootable marks a dead unit with loot currently available.
	Lootable bool `json:"lootable,omitempty"`
	// Skinnable marks a dead unit that can be skinned. Ignored while
	// the unit is still lootable.
	Skinnable bool `json:"skinnable,omitempty"`
	// SummonedByPlayer marks objects conjured by a player character;
	// those are never interaction candidates.
	SummonedByPlayer bool `json:"summonedByPlayer,omitempty"`
}

// Snapshot is the immutable world view captured at the start of one
// resolution cycle.
type Snapshot struct {
	// InWorld reports whether the player is actually loaded into the
	// world. Resolution is skipped entirely while it is false.
	InWorld  bool         `json:"inWorld"`
	Player   Position     `json:"player"`
	Entities []Descriptor `json:"entities"`
}

// Provider yields the entity snapshot for the current invocation. The
// implementation reads the host process's world state and must be
// treated as fallible: a returned error, an empty entity list, or
// partially populated descriptors are all expected outcomes the engine
// absorbs without failing the host.
type Provider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context) (Snapshot, error)

// Snapshot implements Provider for ProviderFunc.
func (f ProviderFunc) Snapshot(ctx context.Context) (Snapshot, error) {
	if f == nil {
		return Snapshot{}, nil
	}
	return f(ctx)
}
