package resolution_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	addon "interact-nearest/addon"
	"interact-nearest/addon/logging"
	logres "interact-nearest/addon/logging/resolution"
)

type schemaProvider struct{ snap addon.Snapshot }

func (p schemaProvider) Snapshot(context.Context) (addon.Snapshot, error) { return p.snap, nil }

type schemaInteractor struct{}

func (schemaInteractor) OpenLoot(string) error      { return nil }
func (schemaInteractor) ConfirmLoot(string) error   { return nil }
func (schemaInteractor) UseGameObject(string) error { return nil }
func (schemaInteractor) Skin(string) error          { return nil }
func (schemaInteractor) Gossip(string) error        { return nil }

// TestInvocationRecordMatchesSchema runs a real cycle and checks the
// emitted NDJSON line against the committed schema, so the log format
// and schemas/resolution.schema.json cannot drift apart silently.
func TestInvocationRecordMatchesSchema(t *testing.T) {
	schemaPath := filepath.Join("..", "..", "schemas", "resolution.schema.json")
	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}

	snap := addon.Snapshot{
		InWorld: true,
		Player:  addon.Position{X: 1, Y: 2, Z: 3},
		Entities: []addon.Descriptor{
			{Identity: "corpse-1", TemplateID: 900, Category: addon.CategoryUnit, Position: addon.Position{X: 2, Y: 2, Z: 3}, Lootable: true},
			{Identity: "chest-1", TemplateID: 179830, Category: addon.CategoryGameObject, Position: addon.Position{X: 1, Y: 3, Z: 3}},
			{Identity: "far-1", TemplateID: 901, Category: addon.CategoryGameObject, Position: addon.Position{X: 40, Y: 2, Z: 3}},
		},
	}

	var events []logging.Event
	engine, err := addon.NewEngine(addon.DefaultConfig(), addon.Deps{
		Provider:   schemaProvider{snap: snap},
		Interactor: schemaInteractor{},
		Publisher: logging.PublisherFunc(func(_ context.Context, event logging.Event) {
			if event.Time.IsZero() {
				event.Time = time.Now()
			}
			events = append(events, event)
		}),
	})
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	if got := engine.InteractNearest(context.Background(), 1); got != 1 {
		t.Fatalf("expected a dispatched cycle, got %d", got)
	}

	validated := 0
	for _, event := range events {
		if event.Type != logres.EventInvocation {
			continue
		}
		data, err := json.Marshal(event)
		if err != nil {
			t.Fatalf("marshal event: %v", err)
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if err := schema.Validate(doc); err != nil {
			t.Fatalf("schema validation failed: %v\nline: %s", err, data)
		}

		var record logres.Record
		if err := json.Unmarshal(data, &record); err != nil {
			t.Fatalf("decode into record: %v", err)
		}
		if record.Payload.SelectedID != "corpse-1" {
			t.Fatalf("expected corpse-1 selected, got %q", record.Payload.SelectedID)
		}
		if record.Payload.Outcome != logres.OutcomeDispatched {
			t.Fatalf("expected dispatched outcome, got %q", record.Payload.Outcome)
		}
		validated++
	}
	if validated != 1 {
		t.Fatalf("expected exactly one invocation record, got %d", validated)
	}
}
