package addon

import "testing"

func lootableCorpse(id string, x float64) Descriptor {
	return Descriptor{Identity: id, TemplateID: 1001, Category: CategoryUnit, Position: Position{X: x}, Lootable: true}
}

func skinnableCorpse(id string, x float64) Descriptor {
	return Descriptor{Identity: id, TemplateID: 1002, Category: CategoryUnit, Position: Position{X: x}, Skinnable: true}
}

func aliveUnit(id string, x float64) Descriptor {
	return Descriptor{Identity: id, TemplateID: 1003, Category: CategoryUnit, Position: Position{X: x}, Alive: true}
}

func gameObject(id string, templateID uint32, x float64) Descriptor {
	return Descriptor{Identity: id, TemplateID: templateID, Category: CategoryGameObject, Position: Position{X: x}}
}

func mustResolve(t *testing.T, cfg Config, snap Snapshot) Resolution {
	t.Helper()
	res, err := Resolve(cfg, snap)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	return res
}

func TestResolveTierPrecedence(t *testing.T) {
	snap := Snapshot{
		InWorld: true,
		Entities: []Descriptor{
			aliveUnit("npc", 1.0),
			skinnableCorpse("hide", 1.5),
			gameObject("chest", 2000, 2.0),
			lootableCorpse("corpse", 4.5),
		},
	}

	res := mustResolve(t, DefaultConfig(), snap)
	if !res.Selected {
		t.Fatalf("expected a selection")
	}
	if res.Entity.Identity != "corpse" {
		t.Fatalf("expected lootable corpse to win, got %s", res.Entity.Identity)
	}
	if res.Tier != TierLootableCorpse {
		t.Fatalf("expected tier %d, got %d", TierLootableCorpse, res.Tier)
	}
	if res.Action != ActionOpenLoot {
		t.Fatalf("expected open_loot action, got %s", res.Action)
	}
}

func TestResolveDistanceTieBreakWithinTier(t *testing.T) {
	snap := Snapshot{
		InWorld: true,
		Entities: []Descriptor{
			gameObject("far", 2000, 4.0),
			gameObject("near", 2001, 2.0),
		},
	}

	res := mustResolve(t, DefaultConfig(), snap)
	if res.Entity.Identity != "near" {
		t.Fatalf("expected nearer object, got %s", res.Entity.Identity)
	}
	if res.Distance != 2.0 {
		t.Fatalf("expected retained distance 2.0, got %v", res.Distance)
	}
}

func TestResolveBoundaryInclusion(t *testing.T) {
	exact := Snapshot{InWorld: true, Entities: []Descriptor{gameObject("edge", 2000, 5.0)}}
	res := mustResolve(t, DefaultConfig(), exact)
	if !res.Selected {
		t.Fatalf("entity at exactly 5.0 must be a candidate")
	}

	beyond := Snapshot{InWorld: true, Entities: []Descriptor{gameObject("edge", 2000, 5.0001)}}
	res = mustResolve(t, DefaultConfig(), beyond)
	if res.Selected {
		t.Fatalf("entity at 5.0001 must be excluded")
	}
	if len(res.Verdicts) != 1 || res.Verdicts[0].Rejected != RejectOutOfRange {
		t.Fatalf("expected out_of_range verdict, got %+v", res.Verdicts)
	}
}

func TestResolveBlacklistExclusion(t *testing.T) {
	for _, id := range []uint32{179830, 179831, 179785, 179786} {
		snap := Snapshot{InWorld: true, Entities: []Descriptor{gameObject("denied", id, 1.0)}}
		res := mustResolve(t, DefaultConfig(), snap)
		if res.Selected {
			t.Fatalf("blacklisted template %d must never be selected", id)
		}
		if res.Verdicts[0].Rejected != RejectBlacklisted {
			t.Fatalf("expected blacklisted verdict for %d, got %+v", id, res.Verdicts[0])
		}
	}
}

func TestResolveBlacklistAppliesToAllCategories(t *testing.T) {
	corpse := lootableCorpse("corpse", 1.0)
	corpse.TemplateID = 179830
	snap := Snapshot{InWorld: true, Entities: []Descriptor{corpse}}

	res := mustResolve(t, DefaultConfig(), snap)
	if res.Selected {
		t.Fatalf("blacklisted unit must never be selected even as top tier")
	}
}

func TestResolveDeadUnitWithoutFlagsExcluded(t *testing.T) {
	dead := Descriptor{Identity: "husk", TemplateID: 1004, Category: CategoryUnit, Position: Position{X: 0.5}}
	snap := Snapshot{InWorld: true, Entities: []Descriptor{dead}}

	res := mustResolve(t, DefaultConfig(), snap)
	if res.Selected {
		t.Fatalf("dead unit with no loot and no hide must never be a candidate")
	}
	if res.Verdicts[0].Rejected != RejectNotInteractable {
		t.Fatalf("expected not_interactable verdict, got %+v", res.Verdicts[0])
	}
}

func TestResolveFirstSeenWinsExactTie(t *testing.T) {
	snap := Snapshot{
		InWorld: true,
		Entities: []Descriptor{
			gameObject("first", 2000, 3.0),
			gameObject("second", 2001, 3.0),
		},
	}

	for i := 0; i < 10; i++ {
		res := mustResolve(t, DefaultConfig(), snap)
		if res.Entity.Identity != "first" {
			t.Fatalf("iteration %d: expected first-seen entity on exact tie, got %s", i, res.Entity.Identity)
		}
	}
}

func TestResolvePlayerSummonedExcluded(t *testing.T) {
	summoned := gameObject("portal", 2000, 1.0)
	summoned.SummonedByPlayer = true
	snap := Snapshot{InWorld: true, Entities: []Descriptor{summoned}}

	res := mustResolve(t, DefaultConfig(), snap)
	if res.Selected {
		t.Fatalf("player-summoned object must be excluded")
	}
	if res.Verdicts[0].Rejected != RejectPlayerSummoned {
		t.Fatalf("expected player_summoned verdict, got %+v", res.Verdicts[0])
	}

	cfg := DefaultConfig()
	cfg.SkipPlayerSummoned = false
	res = mustResolve(t, cfg, snap)
	if !res.Selected {
		t.Fatalf("with the skip disabled the object should be selectable")
	}
}

func TestResolvePlanarDistanceMode(t *testing.T) {
	// 4.0 horizontal, 4.0 vertical: 3D distance ~5.66, planar 4.0.
	node := Descriptor{Identity: "node", TemplateID: 2000, Category: CategoryGameObject, Position: Position{X: 4.0, Z: 4.0}}
	snap := Snapshot{InWorld: true, Entities: []Descriptor{node}}

	res := mustResolve(t, DefaultConfig(), snap)
	if res.Selected {
		t.Fatalf("full3d mode must exclude the vertically offset node")
	}

	cfg := DefaultConfig()
	cfg.DistanceMode = DistancePlanar
	res = mustResolve(t, cfg, snap)
	if !res.Selected {
		t.Fatalf("planar mode must include the vertically offset node")
	}
	if res.Distance != 4.0 {
		t.Fatalf("expected planar distance 4.0, got %v", res.Distance)
	}
}

func TestClassifyLootableBeforeSkinnable(t *testing.T) {
	both := Descriptor{Identity: "corpse", Category: CategoryUnit, Lootable: true, Skinnable: true}
	if tier := classify(both); tier != TierLootableCorpse {
		t.Fatalf("lootable+skinnable corpse must classify as lootable, got %s", tier)
	}

	skinOnly := Descriptor{Identity: "corpse", Category: CategoryUnit, Skinnable: true}
	if tier := classify(skinOnly); tier != TierSkinnableCorpse {
		t.Fatalf("expected skinnable tier, got %s", tier)
	}
}

func TestResolveEmptySnapshot(t *testing.T) {
	res := mustResolve(t, DefaultConfig(), Snapshot{InWorld: true})
	if res.Selected {
		t.Fatalf("empty snapshot must yield no candidate")
	}
	if res.Considered != 0 {
		t.Fatalf("expected 0 considered, got %d", res.Considered)
	}
}
