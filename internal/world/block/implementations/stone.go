package implementations

import (
	"github.com/annel0/voxel-game/internal/world/block"
)

func init() {
	block.Register(&block.Type{
		Index:         block.StoneTypeIndex,
		Name:          "Stone",
		IsSolid:       true,
		IsFullyOpaque: true,
		TopUVs:        block.UVsForSpriteCoords(1, 0),
		SideUVs:       block.UVsForSpriteCoords(1, 0),
		BottomUVs:     block.UVsForSpriteCoords(1, 0),
	})
}
