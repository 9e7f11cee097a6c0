package implementations

import (
	"github.com/annel0/voxel-game/internal/world/block"
)

func init() {
	block.Register(&block.Type{
		Index:         block.AirTypeIndex,
		Name:          "Air",
		IsSolid:       false,
		IsFullyOpaque: false,
	})
}
