package resolution

import (
	"context"
	"time"

	"interact-nearest/addon/logging"
)

const (
	// EventInvocation is emitted once per keypress cycle with the full
	// decision trail.
	EventInvocation logging.EventType = "resolution.invocation"
	// EventProviderFailed is emitted when the snapshot provider errors.
	EventProviderFailed logging.EventType = "resolution.provider_failed"
	// EventDispatchFailed is emitted when a native primitive reports
	// failure for the selected entity.
	EventDispatchFailed logging.EventType = "resolution.dispatch_failed"
)

// Invocation outcomes.
const (
	OutcomeDispatched     = "dispatched"
	OutcomeNoCandidate    = "no_candidate"
	OutcomeDispatchFailed = "dispatch_failed"
	OutcomeProviderFailed = "provider_failed"
	OutcomeNotInWorld     = "not_in_world"
)

// Point is a world coordinate as logged.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// CandidateRecord captures one snapshot entity and the verdict it
// received. Enough state is kept to re-run the resolution offline.
type CandidateRecord struct {
	Identity         string  `json:"identity"`
	TemplateID       uint32  `json:"templateId"`
	Category         string  `json:"category"`
	Position         Point   `json:"position"`
	Alive            bool    `json:"alive,omitempty"`
	Lootable         bool    `json:"lootable,omitempty"`
	Skinnable        bool    `json:"skinnable,omitempty"`
	SummonedByPlayer bool    `json:"summonedByPlayer,omitempty"`
	Distance         float64 `json:"distance"`
	Tier             int     `json:"tier,omitempty"`
	Rejected         string  `json:"rejected,omitempty"`
}

// InvocationPayload is the per-cycle decision record.
type InvocationPayload struct {
	Autoloot   bool              `json:"autoloot"`
	InWorld    bool              `json:"inWorld"`
	Player     Point             `json:"player"`
	Considered int               `json:"considered"`
	Candidates []CandidateRecord `json:"candidates,omitempty"`
	SelectedID string            `json:"selectedId,omitempty"`
	Tier       int               `json:"tier,omitempty"`
	Action     string            `json:"action,omitempty"`
	Distance   float64           `json:"distance,omitempty"`
	Outcome    string            `json:"outcome"`
}

// ProviderFailedPayload describes a snapshot read failure.
type ProviderFailedPayload struct {
	Reason string `json:"reason"`
}

// DispatchFailedPayload describes a rejected native primitive call.
type DispatchFailedPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Record is the wire shape of one invocation line in the NDJSON log.
// The replay tool decodes lines into this type; the schema command
// emits the matching JSON schema.
type Record struct {
	Type       logging.EventType `json:"type"`
	Invocation uint64            `json:"invocation"`
	Time       time.Time         `json:"time"`
	Actor      logging.EntityRef `json:"actor"`
	Severity   logging.Severity  `json:"severity"`
	Category   string            `json:"category,omitempty"`
	Payload    InvocationPayload `json:"payload"`
	Extra      map[string]any    `json:"extra,omitempty"`
}

// Invocation publishes the per-cycle decision event.
func Invocation(ctx context.Context, pub logging.Publisher, invocation uint64, actor logging.EntityRef, payload InvocationPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	severity := logging.SeverityDebug
	if payload.Outcome == OutcomeDispatched {
		severity = logging.SeverityInfo
	}
	event := logging.Event{
		Type:       EventInvocation,
		Invocation: invocation,
		Actor:      actor,
		Severity:   severity,
		Category:   logging.CategoryResolution,
		Payload:    payload,
	}
	if payload.SelectedID != "" {
		kind := logging.EntityKindUnit
		if payload.Action == "use_game_object" {
			kind = logging.EntityKindGameObject
		}
		event.Targets = []logging.EntityRef{{ID: payload.SelectedID, Kind: kind}}
	}
	pub.Publish(ctx, withExtra(event, extra))
}

// ProviderFailed publishes a snapshot failure event.
func ProviderFailed(ctx context.Context, pub logging.Publisher, invocation uint64, actor logging.EntityRef, payload ProviderFailedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, withExtra(logging.Event{
		Type:       EventProviderFailed,
		Invocation: invocation,
		Actor:      actor,
		Severity:   logging.SeverityWarn,
		Category:   logging.CategoryResolution,
		Payload:    payload,
	}, extra))
}

// DispatchFailed publishes a native primitive failure event.
func DispatchFailed(ctx context.Context, pub logging.Publisher, invocation uint64, actor logging.EntityRef, target logging.EntityRef, payload DispatchFailedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, withExtra(logging.Event{
		Type:       EventDispatchFailed,
		Invocation: invocation,
		Actor:      actor,
		Targets:    []logging.EntityRef{target},
		Severity:   logging.SeverityWarn,
		Category:   logging.CategoryResolution,
		Payload:    payload,
	}, extra))
}

// withExtra stamps the caller's extra entries onto the event one key at
// a time, so the published event never aliases the caller's map.
func withExtra(event logging.Event, extra map[string]any) logging.Event {
	for key, value := range extra {
		event = event.WithExtra(key, value)
	}
	return event
}
