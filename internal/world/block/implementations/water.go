package implementations

import (
	"github.com/annel0/voxel-game/internal/world/block"
)

func init() {
	// Вода не твёрдая и не перекрывает свет полностью, но отрисовывается
	block.Register(&block.Type{
		Index:         block.WaterTypeIndex,
		Name:          "Water",
		IsSolid:       false,
		IsFullyOpaque: false,
		TopUVs:        block.UVsForSpriteCoords(4, 0),
		SideUVs:       block.UVsForSpriteCoords(4, 0),
		BottomUVs:     block.UVsForSpriteCoords(4, 0),
	})
}
