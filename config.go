package addon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DistanceMode selects how the range filter measures distance.
type DistanceMode string

const (
	// DistanceFull3D measures straight-line distance in all three axes.
	DistanceFull3D DistanceMode = "full3d"
	// DistancePlanar ignores vertical offset. Useful on multi-level
	// terrain where the host reports large Z deltas for entities that
	// are otherwise in reach.
	DistancePlanar DistanceMode = "planar"
)

// interactRadiusYards is the fixed interaction range. The boundary is
// inclusive: an entity at exactly this distance is still a candidate.
const interactRadiusYards = 5.0

// Config holds the engine's config-time constants. Values are fixed
// once the engine is constructed; there is no runtime adjustment
// surface.
type Config struct {
	RadiusYards        float64      `yaml:"radius_yards"`
	DistanceMode       DistanceMode `yaml:"distance_mode"`
	BlacklistIDs       []uint32     `yaml:"blacklist_ids"`
	RequireInWorld     bool         `yaml:"require_in_world"`
	SkipPlayerSummoned bool         `yaml:"skip_player_summoned"`
}

// DefaultConfig returns the shipped constants.
func DefaultConfig() Config {
	return Config{
		RadiusYards:        interactRadiusYards,
		DistanceMode:       DistanceFull3D,
		BlacklistIDs:       append([]uint32(nil), defaultBlacklistIDs...),
		RequireInWorld:     true,
		SkipPlayerSummoned: true,
	}
}

// LoadConfig reads a YAML override file on top of the defaults. A
// missing file is not an error; the defaults apply unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("addon config %s: %w", path, err)
	}
	return cfg.normalized()
}

func (c Config) normalized() (Config, error) {
	if c.RadiusYards <= 0 {
		c.RadiusYards = interactRadiusYards
	}
	switch c.DistanceMode {
	case "", DistanceFull3D:
		c.DistanceMode = DistanceFull3D
	case DistancePlanar:
	default:
		return c, fmt.Errorf("addon config: unknown distance_mode %q", c.DistanceMode)
	}
	return c, nil
}

// distance applies the configured measurement mode.
func (c Config) distance(from, to Position) float64 {
	if c.DistanceMode == DistancePlanar {
		return from.PlanarDistance(to)
	}
	return from.Distance(to)
}
