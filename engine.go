package addon

import (
	"context"
	"errors"
	"sync/atomic"

	"interact-nearest/addon/internal/telemetry"
	"interact-nearest/addon/logging"
	logres "interact-nearest/addon/logging/resolution"
)

// Metric keys recorded per invocation.
const (
	MetricInvocations      = "interact.invocations"
	MetricDispatched       = "interact.dispatched"
	MetricNoCandidate      = "interact.no_candidate"
	MetricProviderFailures = "interact.provider_failures"
	MetricDispatchFailures = "interact.dispatch_failures"
)

// Deps carries the engine's injected collaborators. Provider and
// Interactor are the host boundaries; everything else is diagnostics
// and may be left nil.
type Deps struct {
	Provider   Provider
	Interactor Interactor
	Publisher  logging.Publisher
	Logger     telemetry.Logger
	Metrics    telemetry.Metrics
}

// Engine resolves the best interactable entity near the player and
// dispatches the matching native primitive. It holds no state between
// invocations beyond a cycle counter used to order diagnostics.
type Engine struct {
	cfg        Config
	blacklist  Blacklist
	provider   Provider
	interactor Interactor
	publisher  logging.Publisher
	logger     telemetry.Logger
	metrics    telemetry.Metrics

	invocations atomic.Uint64
}

var (
	errNoProvider   = errors.New("addon: engine requires a snapshot provider")
	errNoInteractor = errors.New("addon: engine requires an interactor")
)

// NewEngine validates cfg and wires the collaborators.
func NewEngine(cfg Config, deps Deps) (*Engine, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}
	if deps.Provider == nil {
		return nil, errNoProvider
	}
	if deps.Interactor == nil {
		return nil, errNoInteractor
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Engine{
		cfg:        cfg,
		blacklist:  NewBlacklist(cfg.BlacklistIDs),
		provider:   deps.Provider,
		interactor: deps.Interactor,
		publisher:  publisher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}, nil
}

// InteractNearest runs one full resolution cycle and returns 1 when a
// native interaction was dispatched, 0 otherwise. autoloot != 0
// additionally confirms the loot prompt after a successful loot open.
// Every failure is absorbed here: the host only ever sees the return
// value and the diagnostics log.
func (e *Engine) InteractNearest(ctx context.Context, autoloot int) int {
	invocation := e.invocations.Add(1)
	e.count(MetricInvocations)
	actor := logging.EntityRef{ID: "player", Kind: logging.EntityKindPlayer}
	wantLoot := autoloot != 0

	snap, err := e.provider.Snapshot(ctx)
	if err != nil {
		e.count(MetricProviderFailures)
		e.logf("snapshot provider failed: %v", err)
		logres.ProviderFailed(ctx, e.publisher, invocation, actor, logres.ProviderFailedPayload{Reason: err.Error()}, nil)
		logres.Invocation(ctx, e.publisher, invocation, actor, logres.InvocationPayload{
			Autoloot: wantLoot,
			Outcome:  logres.OutcomeProviderFailed,
		}, nil)
		return 0
	}

	if e.cfg.RequireInWorld && !snap.InWorld {
		logres.Invocation(ctx, e.publisher, invocation, actor, logres.InvocationPayload{
			Autoloot: wantLoot,
			Outcome:  logres.OutcomeNotInWorld,
		}, nil)
		return 0
	}

	res := resolve(e.cfg, e.blacklist, snap)
	payload := invocationPayload(snap, res, wantLoot)

	if !res.Selected {
		e.count(MetricNoCandidate)
		e.logf("no candidates within %.1f yards (considered %d)", e.cfg.RadiusYards, res.Considered)
		payload.Outcome = logres.OutcomeNoCandidate
		logres.Invocation(ctx, e.publisher, invocation, actor, payload, nil)
		return 0
	}

	if err := dispatch(e.interactor, res, wantLoot); err != nil {
		e.count(MetricDispatchFailures)
		e.logf("%s failed for %s: %v", res.Action, res.Entity.Identity, err)
		target := logging.EntityRef{ID: res.Entity.Identity, Kind: entityKindFor(res.Entity.Category)}
		logres.DispatchFailed(ctx, e.publisher, invocation, actor, target, logres.DispatchFailedPayload{
			Action: string(res.Action),
			Reason: err.Error(),
		}, nil)
		payload.Outcome = logres.OutcomeDispatchFailed
		logres.Invocation(ctx, e.publisher, invocation, actor, payload, nil)
		return 0
	}

	e.count(MetricDispatched)
	payload.Outcome = logres.OutcomeDispatched
	logres.Invocation(ctx, e.publisher, invocation, actor, payload, nil)
	return 1
}

// Invocations reports how many cycles have run since load.
func (e *Engine) Invocations() uint64 {
	return e.invocations.Load()
}

func (e *Engine) count(key string) {
	if e.metrics == nil {
		return
	}
	e.metrics.Add(key, 1)
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Printf(format, args...)
}

func entityKindFor(category Category) logging.EntityKind {
	switch category {
	case CategoryUnit:
		return logging.EntityKindUnit
	case CategoryGameObject:
		return logging.EntityKindGameObject
	default:
		return logging.EntityKindUnknown
	}
}

// invocationPayload flattens the snapshot and verdict trail into the
// logged record. Verdicts are emitted in provider order, one per
// entity, so offline tooling can replay the exact cycle.
func invocationPayload(snap Snapshot, res Resolution, autoloot bool) logres.InvocationPayload {
	payload := logres.InvocationPayload{
		Autoloot:   autoloot,
		InWorld:    snap.InWorld,
		Player:     logres.Point{X: snap.Player.X, Y: snap.Player.Y, Z: snap.Player.Z},
		Considered: res.Considered,
	}
	if len(snap.Entities) > 0 {
		payload.Candidates = make([]logres.CandidateRecord, 0, len(snap.Entities))
		for i, entity := range snap.Entities {
			record := logres.CandidateRecord{
				Identity:         entity.Identity,
				TemplateID:       entity.TemplateID,
				Category:         string(entity.Category),
				Position:         logres.Point{X: entity.Position.X, Y: entity.Position.Y, Z: entity.Position.Z},
				Alive:            entity.Alive,
				Lootable:         entity.Lootable,
				Skinnable:        entity.Skinnable,
				SummonedByPlayer: entity.SummonedByPlayer,
			}
			if i < len(res.Verdicts) {
				verdict := res.Verdicts[i]
				record.Distance = verdict.Distance
				record.Tier = int(verdict.Tier)
				record.Rejected = string(verdict.Rejected)
			}
			payload.Candidates = append(payload.Candidates, record)
		}
	}
	if res.Selected {
		payload.SelectedID = res.Entity.Identity
		payload.Tier = int(res.Tier)
		payload.Action = string(res.Action)
		payload.Distance = res.Distance
	}
	return payload
}
