package addon

// Tier is the fixed priority class of a candidate. Lower is better.
type Tier int

const (
	// TierNone marks an entity that is not a candidate at all.
	TierNone Tier = 0
	// TierLootableCorpse is a dead unit with loot waiting.
	TierLootableCorpse Tier = 1
	// TierGameObject is any interactable prop: chest, herb, node.
	TierGameObject Tier = 2
	// TierSkinnableCorpse is a dead unit with no loot left but a hide.
	TierSkinnableCorpse Tier = 3
	// TierAliveUnit is a living NPC (gossip, vendor, quest giver).
	TierAliveUnit Tier = 4
)

func (t Tier) String() string {
	switch t {
	case TierLootableCorpse:
		return "lootable_corpse"
	case TierGameObject:
		return "game_object"
	case TierSkinnableCorpse:
		return "skinnable_corpse"
	case TierAliveUnit:
		return "alive_unit"
	default:
		return "none"
	}
}

// RejectReason explains why an entity was dropped from candidacy.
type RejectReason string

const (
	RejectBlacklisted     RejectReason = "blacklisted"
	RejectOutOfRange      RejectReason = "out_of_range"
	RejectPlayerSummoned  RejectReason = "player_summoned"
	RejectNotInteractable RejectReason = "not_interactable"
)

// Verdict records the per-entity decision for the diagnostics trail.
type Verdict struct {
	Identity string       `json:"identity"`
	Distance float64      `json:"distance"`
	Tier     Tier         `json:"tier,omitempty"`
	Rejected RejectReason `json:"rejected,omitempty"`
}

// Resolution is the outcome of one filter/classify/select pass over a
// snapshot. It is transient: built, dispatched, logged, discarded.
type Resolution struct {
	Selected   bool
	Entity     Descriptor
	Tier       Tier
	Action     Action
	Distance   float64
	Considered int
	Verdicts   []Verdict
}

// candidate tracks the best entity seen so far for one tier. An update
// only happens on strictly smaller distance, so the first entity seen
// at a given distance wins ties and selection stays reproducible for
// identical snapshots.
type candidate struct {
	entity   Descriptor
	distance float64
	valid    bool
}

func (c *candidate) offer(entity Descriptor, distance float64) {
	if c.valid && distance >= c.distance {
		return
	}
	c.entity = entity
	c.distance = distance
	c.valid = true
}

// classify maps an entity to its tier, or TierNone when the entity is
// not interactable at all. Lootable is checked before skinnable: a
// corpse that is both is looted, never skinned.
func classify(d Descriptor) Tier {
	switch d.Category {
	case CategoryGameObject:
		return TierGameObject
	case CategoryUnit:
		if d.Alive {
			return TierAliveUnit
		}
		if d.Lootable {
			return TierLootableCorpse
		}
		if d.Skinnable {
			return TierSkinnableCorpse
		}
		return TierNone
	default:
		return TierNone
	}
}

// Resolve runs one filter/classify/select pass without dispatching
// anything. Offline tooling uses it to re-run logged cycles.
func Resolve(cfg Config, snap Snapshot) (Resolution, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return Resolution{}, err
	}
	return resolve(cfg, NewBlacklist(cfg.BlacklistIDs), snap), nil
}

// resolve runs the whole blacklist/range/classify/select pass. The
// snapshot is treated as immutable; distance is computed once per
// entity and retained for both the range check and the tie-break.
func resolve(cfg Config, blacklist Blacklist, snap Snapshot) Resolution {
	res := Resolution{
		Considered: len(snap.Entities),
		Verdicts:   make([]Verdict, 0, len(snap.Entities)),
	}

	var best [5]candidate // indexed by Tier, slot 0 unused

	for _, entity := range snap.Entities {
		verdict := Verdict{Identity: entity.Identity}

		if cfg.SkipPlayerSummoned && entity.SummonedByPlayer {
			verdict.Rejected = RejectPlayerSummoned
			res.Verdicts = append(res.Verdicts, verdict)
			continue
		}
		if blacklist.Contains(entity.TemplateID) {
			verdict.Rejected = RejectBlacklisted
			res.Verdicts = append(res.Verdicts, verdict)
			continue
		}

		distance := cfg.distance(snap.Player, entity.Position)
		verdict.Distance = distance
		if distance > cfg.RadiusYards {
			verdict.Rejected = RejectOutOfRange
			res.Verdicts = append(res.Verdicts, verdict)
			continue
		}

		tier := classify(entity)
		if tier == TierNone {
			verdict.Rejected = RejectNotInteractable
			res.Verdicts = append(res.Verdicts, verdict)
			continue
		}

		verdict.Tier = tier
		res.Verdicts = append(res.Verdicts, verdict)
		best[tier].offer(entity, distance)
	}

	for tier := TierLootableCorpse; tier <= TierAliveUnit; tier++ {
		if !best[tier].valid {
			continue
		}
		res.Selected = true
		res.Entity = best[tier].entity
		res.Tier = tier
		res.Action = tier.Action()
		res.Distance = best[tier].distance
		return res
	}
	return res
}
