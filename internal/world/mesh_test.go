package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world/block"
	_ "github.com/annel0/voxel-game/internal/world/block/implementations"
)

func TestMeshSingleBlock(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	c.blocks[BlockIndexForChunkCoords(5, 10, 5)] = Block{typeIndex: block.StoneTypeIndex}

	mesh := BuildChunkMesh(c)

	// Одинокий куб: шесть граней по четыре вершины
	assert.Len(t, mesh.Vertices, 24)
	assert.Len(t, mesh.Indices, 36)
}

func TestMeshHiddenFacesCulled(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	c.blocks[BlockIndexForChunkCoords(5, 10, 5)] = Block{typeIndex: block.StoneTypeIndex}
	c.blocks[BlockIndexForChunkCoords(6, 10, 5)] = Block{typeIndex: block.StoneTypeIndex}

	mesh := BuildChunkMesh(c)

	// Два куба вплотную: общая пара граней не строится
	assert.Len(t, mesh.Vertices, 40, "Ожидалось 10 граней вместо 12")
	assert.Len(t, mesh.Indices, 60)
}

func TestMeshSkipsChunkBoundaryWithoutNeighbor(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	c.blocks[BlockIndexForChunkCoords(0, 10, 5)] = Block{typeIndex: block.StoneTypeIndex}

	mesh := BuildChunkMesh(c)

	// Западная грань смотрит в неактивный чанк: за границей блок-заглушка
	assert.Len(t, mesh.Vertices, 20, "Ожидалось 5 граней")
	for _, v := range mesh.Vertices {
		assert.NotEqual(t, [3]float32{-1, 0, 0}, v.Normal,
			"Грань в сторону неактивного чанка не должна строиться")
	}
}

func TestMeshVertexColorFromNeighborLight(t *testing.T) {
	w := newTestWorld(11)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.drainLightingQueue()

	c := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	mesh := BuildChunkMesh(c)
	require.NotEmpty(t, mesh.Vertices)

	// Верхние грани поверхности освещены небом на максимум
	surface := surfaceY(c, 8, 8)
	found := false
	for _, v := range mesh.Vertices {
		if v.Normal == [3]float32{0, 1, 0} &&
			v.Position == [3]float32{8, float32(surface + 1), 8} {
			assert.Equal(t, float32(1.0), v.Color[0],
				"Верхняя грань под небом должна быть освещена полностью")
			found = true
		}
	}
	assert.True(t, found, "Верхняя грань поверхности не найдена в меше")
}

func TestMeshWaterFacesAgainstAir(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	c.blocks[BlockIndexForChunkCoords(5, 10, 5)] = Block{typeIndex: block.WaterTypeIndex}

	mesh := BuildChunkMesh(c)
	assert.NotEmpty(t, mesh.Vertices, "Вода видимый блок и должна попадать в меш")
}
