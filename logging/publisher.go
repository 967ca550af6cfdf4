package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

type EntityKind string

const (
	EntityKindUnknown    EntityKind = "unknown"
	EntityKindPlayer     EntityKind = "player"
	EntityKindUnit       EntityKind = "unit"
	EntityKindGameObject EntityKind = "gameobject"
	EntityKindEngine     EntityKind = "engine"
)

// Event is one diagnostics record. Invocation counts keypress cycles
// since the addon was loaded and orders records within a session.
type Event struct {
	Type       EventType      `json:"type"`
	Invocation uint64         `json:"invocation"`
	Time       time.Time      `json:"time"`
	Actor      EntityRef      `json:"actor"`
	Targets    []EntityRef    `json:"targets,omitempty"`
	Severity   Severity       `json:"severity"`
	Category   string         `json:"category,omitempty"`
	Payload    any            `json:"payload,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

const (
	CategoryResolution = "resolution"
	CategorySystem     = "system"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

// WithFields returns a publisher that stamps the given fields into
// Extra on every event, without overriding values already present.
func WithFields(p Publisher, fields map[string]any) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if len(fields) == 0 {
		return p
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &fieldPublisher{next: p, fields: copied}
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	if p.next == nil {
		return
	}
	event = CloneEvent(event)
	if event.Extra == nil {
		event.Extra = make(map[string]any, len(p.fields))
	}
	for k, v := range p.fields {
		if _, exists := event.Extra[k]; !exists {
			event.Extra[k] = v
		}
	}
	p.next.Publish(ctx, event)
}

// CloneEvent returns a copy of event whose Targets slice and Extra map
// are detached from the original. Sinks that retain events past the
// Write call must clone them first.
func CloneEvent(event Event) Event {
	cloned := event
	if len(event.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), event.Targets...)
	}
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}

func (e Event) WithExtra(key string, value any) Event {
	if e.Extra == nil {
		e.Extra = make(map[string]any, 1)
	}
	e.Extra[key] = value
	return e
}
