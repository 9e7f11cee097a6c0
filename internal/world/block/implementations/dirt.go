package implementations

import (
	"github.com/annel0/voxel-game/internal/world/block"
)

func init() {
	block.Register(&block.Type{
		Index:         block.DirtTypeIndex,
		Name:          "Dirt",
		IsSolid:       true,
		IsFullyOpaque: true,
		TopUVs:        block.UVsForSpriteCoords(2, 0),
		SideUVs:       block.UVsForSpriteCoords(2, 0),
		BottomUVs:     block.UVsForSpriteCoords(2, 0),
	})
}
