package implementations

import (
	"github.com/annel0/voxel-game/internal/world/block"
)

func init() {
	block.Register(&block.Type{
		Index:         block.GrassTypeIndex,
		Name:          "Grass",
		IsSolid:       true,
		IsFullyOpaque: true,
		TopUVs:        block.UVsForSpriteCoords(0, 0),
		SideUVs:       block.UVsForSpriteCoords(3, 0),
		BottomUVs:     block.UVsForSpriteCoords(2, 0),
	})
}
