package metadata

import (
	"hash/fnv"

	"github.com/spaghettifunk/scenebridge/engine/math"
)

// Names of the constants attached to every vector draw.
const (
	ConstantProperties     = "properties"
	ConstantGradientLimits = "gradientLimits"
	ConstantColors         = "colors"
	ConstantStops          = "stops"
)

var (
	HashProperties     = HashName(ConstantProperties)
	HashGradientLimits = HashName(ConstantGradientLimits)
	HashColors         = HashName(ConstantColors)
	HashStops          = HashName(ConstantStops)
)

/**
 * @brief A named shader constant of one or more vec4 values.
 */
type Constant struct {
	/** @brief 64-bit hash of the constant name, see HashName. */
	NameHash uint64
	Values   []math.Vec4
}

// HashName returns the 64-bit FNV-1a hash used to key shader constants.
func HashName(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
