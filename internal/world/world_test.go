package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world/block"
	_ "github.com/annel0/voxel-game/internal/world/block/implementations"
)

func newTestWorld(seed int64) *World {
	return NewWorld(seed, testGenParams, nil, 100, 16)
}

// surfaceY возвращает высоту первого сверху невоздушного блока колонки
func surfaceY(c *Chunk, x, z int) int {
	for y := ChunkDimY - 1; y >= 0; y-- {
		if c.Block(BlockIndexForChunkCoords(x, y, z)).TypeIndex() != block.AirTypeIndex {
			return y
		}
	}
	return -1
}

func TestActivateChunkTwicePanics(t *testing.T) {
	w := newTestWorld(1)
	coords := vec.Vec2{X: 2, Y: 3}

	w.ActivateChunk(coords)
	assert.Panics(t, func() { w.ActivateChunk(coords) },
		"Повторная активация чанка должна вызывать панику")
}

func TestDeactivateMissingChunkPanics(t *testing.T) {
	w := newTestWorld(1)
	assert.Panics(t, func() { w.DeactivateChunk(vec.Vec2{X: 9, Y: 9}) },
		"Деактивация неактивного чанка должна вызывать панику")
}

func TestPopEmptyLightingQueuePanics(t *testing.T) {
	w := newTestWorld(1)
	assert.Panics(t, func() { w.popLightingQueue() },
		"Выборка из пустой очереди освещения должна вызывать панику")
}

func TestActivationWiresNeighbors(t *testing.T) {
	w := newTestWorld(5)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.ActivateChunk(vec.Vec2{X: 1, Y: 0})

	center := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	east := w.activeChunks[vec.Vec2{X: 1, Y: 0}]

	require.NotNil(t, center.neighborEast, "У центрального чанка должен появиться восточный сосед")
	assert.Same(t, east, center.neighborEast)
	assert.Same(t, center, east.neighborWest, "Связь соседей должна быть двусторонней")
}

func TestDeactivationUnwiresNeighbors(t *testing.T) {
	w := newTestWorld(5)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.ActivateChunk(vec.Vec2{X: 1, Y: 0})

	center := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	w.DeactivateChunk(vec.Vec2{X: 1, Y: 0})

	assert.Nil(t, center.neighborEast, "После деактивации соседа связь должна быть разорвана")
	assert.Equal(t, 1, w.ActiveChunkCount())
}

func TestUpdateActivatesOneChunkPerTick(t *testing.T) {
	w := newTestWorld(3)
	viewpoint := vec.Vec3Float{X: 8, Y: 35, Z: 8}

	w.Update(viewpoint)
	assert.Equal(t, 1, w.ActiveChunkCount(), "За первый тик должен активироваться ровно один чанк")

	w.Update(viewpoint)
	assert.Equal(t, 2, w.ActiveChunkCount(), "За второй тик должен активироваться ещё один чанк")

	_, ok := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	assert.True(t, ok, "Первым должен активироваться чанк под точкой наблюдения")
}

func TestDeactivationHysteresis(t *testing.T) {
	w := NewWorld(3, testGenParams, nil, 20, 16)

	// Наполнить окрестность точки наблюдения
	viewpoint := vec.Vec3Float{X: 8, Y: 35, Z: 8}
	for i := 0; i < 8; i++ {
		w.Update(viewpoint)
	}
	require.Contains(t, w.activeChunks, vec.Vec2{X: 0, Y: 0})

	// Сдвиг за радиус активации, но в пределах полосы гистерезиса:
	// центр чанка (0,0) на расстоянии 30 при пороге 20+16
	w.Update(vec.Vec3Float{X: 38, Y: 35, Z: 8})
	assert.Contains(t, w.activeChunks, vec.Vec2{X: 0, Y: 0},
		"Чанк в полосе гистерезиса не должен деактивироваться")

	// Далеко за порогом: чанки выводятся по одному за тик
	before := w.ActiveChunkCount()
	w.Update(vec.Vec3Float{X: 500, Y: 35, Z: 8})
	after := w.ActiveChunkCount()
	assert.LessOrEqual(t, after, before, "Дальние чанки должны деактивироваться")

	for i := 0; i < 64; i++ {
		w.Update(vec.Vec3Float{X: 500, Y: 35, Z: 8})
	}
	assert.NotContains(t, w.activeChunks, vec.Vec2{X: 0, Y: 0},
		"После ухода точки наблюдения чанк (0,0) должен быть деактивирован")
}

func TestDeactivateAll(t *testing.T) {
	w := newTestWorld(3)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.ActivateChunk(vec.Vec2{X: 1, Y: 0})
	w.ActivateChunk(vec.Vec2{X: 0, Y: 1})

	w.DeactivateAll()
	assert.Equal(t, 0, w.ActiveChunkCount())
}

func TestSkyLightingAfterActivation(t *testing.T) {
	w := newTestWorld(11)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.drainLightingQueue()

	c := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	surface := surfaceY(c, 8, 8)
	require.Greater(t, surface, 0)

	top := c.Block(BlockIndexForChunkCoords(8, ChunkDimY-1, 8))
	assert.True(t, top.IsSky(), "Верхний блок колонки должен видеть небо")
	assert.Equal(t, MaxLightValue, top.OutdoorLight(), "Небесный блок освещён максимально")

	above := c.Block(BlockIndexForChunkCoords(8, surface+1, 8))
	assert.True(t, above.IsSky())
	assert.Equal(t, MaxLightValue, above.OutdoorLight())

	// Непрозрачная поверхность не хранит уличный свет
	surfaceBlock := c.Block(BlockIndexForChunkCoords(8, surface, 8))
	if surfaceBlock.Type().IsFullyOpaque {
		assert.False(t, surfaceBlock.IsSky())
		assert.Equal(t, 0, surfaceBlock.OutdoorLight())
	}
}

func TestLightingReachesFixedPoint(t *testing.T) {
	w := newTestWorld(11)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.drainLightingQueue()

	assert.Empty(t, w.lightingQueue, "После вычерпывания очередь должна быть пустой")

	// Повторная постановка всего чанка не должна ничего изменить
	c := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	before := make([]uint8, BlocksPerChunk)
	for i := 0; i < BlocksPerChunk; i++ {
		before[i] = c.blocks[i].light
	}
	for i := 0; i < BlocksPerChunk; i++ {
		w.enqueueLightingUpdate(c.BlockLocatorForIndex(i))
	}
	w.drainLightingQueue()
	for i := 0; i < BlocksPerChunk; i++ {
		require.Equal(t, before[i], c.blocks[i].light,
			"Свет блока %d изменился при повторном пересчёте", i)
	}
}

func TestLightingQueueDeduplicates(t *testing.T) {
	w := newTestWorld(11)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.drainLightingQueue()

	c := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	locator := c.BlockLocatorForIndex(BlockIndexForChunkCoords(8, 50, 8))

	w.enqueueLightingUpdate(locator)
	w.enqueueLightingUpdate(locator)
	assert.Len(t, w.lightingQueue, 1, "Блок не должен стоять в очереди дважды")

	w.enqueueLightingUpdate(InvalidBlockLocator())
	assert.Len(t, w.lightingQueue, 1, "Недействительный локатор не ставится в очередь")
}

func TestDigOpensSkyColumn(t *testing.T) {
	w := newTestWorld(11)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.drainLightingQueue()

	c := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	surface := surfaceY(c, 8, 8)

	dug := c.BlockLocatorForIndex(BlockIndexForChunkCoords(8, surface, 8))
	w.setBlockTypeAndRelight(dug, block.AirTypeIndex)
	w.drainLightingQueue()

	b := dug.GetBlock()
	assert.Equal(t, block.AirTypeIndex, b.TypeIndex())
	assert.True(t, b.IsSky(), "Выкопанный под небом блок должен видеть небо")
	assert.Equal(t, MaxLightValue, b.OutdoorLight())
}

func TestPlacedBlockShadowsColumn(t *testing.T) {
	w := newTestWorld(11)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.drainLightingQueue()

	c := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	surface := surfaceY(c, 8, 8)
	require.Less(t, surface+6, ChunkDimY)

	// Камень высоко над рельефом: все горизонтальные соседи
	// затенённой колонки гарантированно остаются небесными
	placed := c.BlockLocatorForIndex(BlockIndexForChunkCoords(8, surface+6, 8))
	w.setBlockTypeAndRelight(placed, block.StoneTypeIndex)
	w.drainLightingQueue()

	shaded := c.Block(BlockIndexForChunkCoords(8, surface+5, 8))
	assert.False(t, shaded.IsSky(), "Блок под поставленным камнем больше не видит небо")
	assert.Equal(t, MaxLightValue-1, shaded.OutdoorLight(),
		"Затенённый блок должен получать свет от небесных соседей с затуханием")

	placedBlock := placed.GetBlock()
	assert.False(t, placedBlock.IsSky())
	assert.Equal(t, 0, placedBlock.OutdoorLight(), "Непрозрачный блок не хранит уличный свет")
}

func TestGlowstoneSpreadsIndoorLight(t *testing.T) {
	w := newTestWorld(11)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.drainLightingQueue()

	c := w.activeChunks[vec.Vec2{X: 0, Y: 0}]

	// Пещера глубоко в камне: светящийся блок и воздушный карман рядом
	glow := c.BlockLocatorForIndex(BlockIndexForChunkCoords(8, 5, 8))
	pocket := glow.ToEast()
	w.setBlockTypeAndRelight(pocket, block.AirTypeIndex)
	w.setBlockTypeAndRelight(glow, block.GlowstoneTypeIndex)
	w.drainLightingQueue()

	assert.Equal(t, MaxLightValue, glow.GetBlock().IndoorLight(),
		"Светящийся блок должен иметь максимальный комнатный свет")
	assert.Equal(t, MaxLightValue-1, pocket.GetBlock().IndoorLight(),
		"Соседний воздух освещается с затуханием на единицу")
	assert.Equal(t, 0, glow.GetBlock().OutdoorLight(),
		"Собственное свечение не влияет на уличный свет")
}

func TestCrossChunkLightSeeding(t *testing.T) {
	w := newTestWorld(11)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
	w.drainLightingQueue()

	// Активация соседа ставит в очередь граничные плоскости обоих чанков
	w.ActivateChunk(vec.Vec2{X: 1, Y: 0})
	assert.NotEmpty(t, w.lightingQueue)
	w.drainLightingQueue()

	// Свет на стыке согласован: перепад между соседями не больше единицы
	center := w.activeChunks[vec.Vec2{X: 0, Y: 0}]
	east := w.activeChunks[vec.Vec2{X: 1, Y: 0}]
	for y := 0; y < ChunkDimY; y++ {
		for z := 0; z < ChunkDimZ; z++ {
			a := center.Block(BlockIndexForChunkCoords(ChunkMaskX, y, z))
			b := east.Block(BlockIndexForChunkCoords(0, y, z))
			if a.Type().IsFullyOpaque || b.Type().IsFullyOpaque {
				continue
			}
			diff := a.OutdoorLight() - b.OutdoorLight()
			if diff < 0 {
				diff = -diff
			}
			require.LessOrEqual(t, diff, 1,
				"Разрыв уличного света на стыке чанков в (%d, %d)", y, z)
		}
	}
}

func BenchmarkGenerateChunk(b *testing.B) {
	noise := newTestWorld(1).noise
	for i := 0; i < b.N; i++ {
		c := NewChunk(vec.Vec2{X: i, Y: 0})
		c.GenerateWithPerlinNoise(noise, testGenParams)
	}
}

func BenchmarkActivationWithLighting(b *testing.B) {
	for i := 0; i < b.N; i++ {
		w := newTestWorld(1)
		w.ActivateChunk(vec.Vec2{X: 0, Y: 0})
		w.drainLightingQueue()
	}
}

// recordingScene запоминает координаты переданных мешей
type recordingScene struct {
	submitted []vec.Vec2
}

func (s *recordingScene) SubmitChunkMesh(coords vec.Vec2, _ *Mesh) {
	s.submitted = append(s.submitted, coords)
}

func TestRenderRebuildsClosestDirtyChunkFirst(t *testing.T) {
	w := newTestWorld(1)
	for z := 0; z <= 3; z++ {
		for x := 0; x <= 2; x++ {
			w.ActivateChunk(vec.Vec2{X: x, Y: z})
		}
	}
	w.drainLightingQueue()

	// Все четыре соседа есть только у (1, 1) и (1, 2)
	for _, c := range w.activeChunks {
		c.meshDirty = false
	}
	w.activeChunks[vec.Vec2{X: 1, Y: 1}].meshDirty = true
	w.activeChunks[vec.Vec2{X: 1, Y: 2}].meshDirty = true

	// Наблюдатель стоит в центре чанка (1, 2)
	w.SetViewpoint(vec.Vec3Float{X: 24, Y: 40, Z: 40})

	scene := &recordingScene{}
	w.Render(scene)
	w.Render(scene)
	w.Render(scene)

	require.Len(t, scene.submitted, 2, "Каждый вызов перестраивает не более одного чанка")
	assert.Equal(t, vec.Vec2{X: 1, Y: 2}, scene.submitted[0],
		"Сначала перестраивается ближайший к наблюдателю чанк")
	assert.Equal(t, vec.Vec2{X: 1, Y: 1}, scene.submitted[1])
}
