package addon

// Action is the native interaction primitive chosen for a selection.
type Action string

const (
	ActionOpenLoot      Action = "open_loot"
	ActionUseGameObject Action = "use_game_object"
	ActionSkin          Action = "skin"
	ActionGossip        Action = "gossip"
)

// Action returns the primitive invoked for a candidate of this tier.
func (t Tier) Action() Action {
	switch t {
	case TierLootableCorpse:
		return ActionOpenLoot
	case TierGameObject:
		return ActionUseGameObject
	case TierSkinnableCorpse:
		return ActionSkin
	case TierAliveUnit:
		return ActionGossip
	default:
		return ""
	}
}

// Interactor is the host boundary for the native interaction
// primitives. Each call takes the entity identity from the snapshot and
// reports whether the native side accepted it. Implementations live
// with the host bindings; the engine only decides which one to call.
type Interactor interface {
	// OpenLoot opens the loot window of a dead unit.
	OpenLoot(identity string) error
	// ConfirmLoot accepts the loot prompt after a successful OpenLoot.
	ConfirmLoot(identity string) error
	// UseGameObject right-clicks a world object.
	UseGameObject(identity string) error
	// Skin uses the skinning skill on a corpse.
	Skin(identity string) error
	// Gossip opens interaction with a living unit.
	Gossip(identity string) error
}

// dispatch invokes the primitive matching the resolution. Auto-loot
// only fires after OpenLoot succeeded; a failed primitive is never
// followed by a second call in the same cycle, since retrying a native
// interaction can double its side effects.
func dispatch(interactor Interactor, res Resolution, autoloot bool) error {
	switch res.Action {
	case ActionOpenLoot:
		if err := interactor.OpenLoot(res.Entity.Identity); err != nil {
			return err
		}
		if autoloot {
			return interactor.ConfirmLoot(res.Entity.Identity)
		}
		return nil
	case ActionUseGameObject:
		return interactor.UseGameObject(res.Entity.Identity)
	case ActionSkin:
		return interactor.Skin(res.Entity.Identity)
	case ActionGossip:
		return interactor.Gossip(res.Entity.Identity)
	default:
		return nil
	}
}
