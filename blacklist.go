package addon

// Certain game-object templates crash the native interaction call or
// trigger behavior the player never wants bound to a key. They are
// excluded outright rather than deprioritized.
var defaultBlacklistIDs = []uint32{179830, 179831, 179785, 179786}

// Blacklist is an immutable deny-set of game-object template IDs.
// The zero value blocks nothing.
type Blacklist struct {
	ids map[uint32]struct{}
}

// NewBlacklist copies ids into an immutable set.
func NewBlacklist(ids []uint32) Blacklist {
	if len(ids) == 0 {
		return Blacklist{}
	}
	set := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Blacklist{ids: set}
}

// DefaultBlacklist returns the built-in deny-set.
func DefaultBlacklist() Blacklist {
	return NewBlacklist(defaultBlacklistIDs)
}

// Contains reports whether id is denied.
func (b Blacklist) Contains(id uint32) bool {
	if b.ids == nil {
		return false
	}
	_, ok := b.ids[id]
	return ok
}

// Len returns the number of denied IDs.
func (b Blacklist) Len() int {
	return len(b.ids)
}
