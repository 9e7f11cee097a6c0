package implementations

import (
	"github.com/annel0/voxel-game/internal/world/block"
)

func init() {
	block.Register(&block.Type{
		Index:         block.GlowstoneTypeIndex,
		Name:          "Glowstone",
		IsSolid:       true,
		IsFullyOpaque: false, // Пропускает собственный свет наружу
		InternalLight: 15,
		TopUVs:        block.UVsForSpriteCoords(5, 0),
		SideUVs:       block.UVsForSpriteCoords(5, 0),
		BottomUVs:     block.UVsForSpriteCoords(5, 0),
	})
}
