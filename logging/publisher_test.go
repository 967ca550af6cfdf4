package logging_test

import (
	"testing"

	"interact-nearest/addon/logging"
)

func TestCloneEventDetachesTargetsAndExtra(t *testing.T) {
	original := logging.Event{
		Type:    "resolution.invocation",
		Targets: []logging.EntityRef{{ID: "corpse-1", Kind: logging.EntityKindUnit}},
		Extra:   map[string]any{"session": "alpha"},
	}

	cloned := logging.CloneEvent(original)
	original.Targets[0].ID = "tampered"
	original.Extra["session"] = "tampered"

	if cloned.Targets[0].ID != "corpse-1" {
		t.Fatalf("clone shares the targets slice: %+v", cloned.Targets)
	}
	if cloned.Extra["session"] != "alpha" {
		t.Fatalf("clone shares the extra map: %+v", cloned.Extra)
	}
}

func TestEventWithExtra(t *testing.T) {
	event := logging.Event{Type: "resolution.invocation"}

	event = event.WithExtra("session", "alpha")
	event = event.WithExtra("build", 5)

	if len(event.Extra) != 2 {
		t.Fatalf("expected 2 extra entries, got %+v", event.Extra)
	}
	if event.Extra["session"] != "alpha" || event.Extra["build"] != 5 {
		t.Fatalf("unexpected extra contents: %+v", event.Extra)
	}

	event = event.WithExtra("session", "beta")
	if event.Extra["session"] != "beta" {
		t.Fatalf("expected latest value to win, got %v", event.Extra["session"])
	}
}
