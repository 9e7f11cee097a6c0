package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/voxel-game/internal/logging"
	"github.com/annel0/voxel-game/internal/storage"
	"github.com/annel0/voxel-game/internal/util"
	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world/block"
)

// World владеет активными чанками, очередью пересчёта освещения и
// генератором рельефа. За один тик активируется не более одного чанка
// и деактивируется не более одного; очередь освещения вычерпывается
// полностью, поэтому к концу тика свет всегда согласован.
//
// Все публичные методы потокобезопасны; локаторы блоков наружу
// не выдаются.
type World struct {
	mu sync.Mutex

	noise     *util.NoiseGenerator
	genParams GenerationParams
	store     storage.ChunkStore

	activationRange    float64
	deactivationOffset float64

	activeChunks  map[vec.Vec2]*Chunk
	lightingQueue []BlockLocator

	viewpoint vec.Vec3Float

	// Отладочный луч: зафиксированная позиция и направление,
	// перетрассируется каждый тик
	debugRaySet      bool
	debugRayStart    vec.Vec3Float
	debugRayDir      vec.Vec3Float
	debugRayDistance float64
	debugRayResult   RaycastResult
}

// NewWorld создаёт мир с указанным сидом и параметрами генерации.
// store может быть nil — тогда чанки живут только в памяти.
func NewWorld(seed int64, params GenerationParams, store storage.ChunkStore, activationRange, deactivationOffset float64) *World {
	return &World{
		noise:              util.NewNoiseGenerator(seed),
		genParams:          params,
		store:              store,
		activationRange:    activationRange,
		deactivationOffset: deactivationOffset,
		activeChunks:       make(map[vec.Vec2]*Chunk),
	}
}

// Seed возвращает сид генератора мира
func (w *World) Seed() int64 {
	return w.noise.Seed()
}

// SetViewpoint задаёт точку наблюдения для активации чанков
func (w *World) SetViewpoint(viewpoint vec.Vec3Float) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.viewpoint = viewpoint
}

// Viewpoint возвращает текущую точку наблюдения
func (w *World) Viewpoint() vec.Vec3Float {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewpoint
}

// ActiveChunkCount возвращает количество активных чанков
func (w *World) ActiveChunkCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.activeChunks)
}

// ActiveChunkCoords возвращает координаты всех активных чанков
func (w *World) ActiveChunkCoords() []vec.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	coords := make([]vec.Vec2, 0, len(w.activeChunks))
	for c := range w.activeChunks {
		coords = append(coords, c)
	}
	return coords
}

// ChunkCoordsForWorldPosition возвращает координаты чанка,
// содержащего мировую позицию
func ChunkCoordsForWorldPosition(position vec.Vec3Float) vec.Vec2 {
	floored := position.Floor()
	return vec.Vec2{X: floored.X >> ChunkBitsX, Y: floored.Z >> ChunkBitsZ}
}

// Update выполняет один тик мира: активирует ближайший чанк в радиусе
// активации, деактивирует самый дальний за радиусом с гистерезисом и
// вычерпывает очередь пересчёта освещения
func (w *World) Update(viewpoint vec.Vec3Float) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.viewpoint = viewpoint
	w.activateNearestChunk()
	w.deactivateFarthestChunk()
	w.drainLightingQueue()

	if w.debugRaySet {
		w.debugRayResult = w.castRay(w.debugRayStart, w.debugRayDir, w.debugRayDistance)
	}
}

// SetDebugRay фиксирует отладочный луч; он перетрассируется каждый
// тик, чтобы результат отражал текущее состояние блоков
func (w *World) SetDebugRay(start, direction vec.Vec3Float, maxDistance float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debugRaySet = true
	w.debugRayStart = start
	w.debugRayDir = direction
	w.debugRayDistance = maxDistance
	w.debugRayResult = w.castRay(start, direction, maxDistance)
}

// ClearDebugRay выключает отладочный луч
func (w *World) ClearDebugRay() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debugRaySet = false
}

// DebugRayResult возвращает результат последней трассировки
// отладочного луча; второй результат false, если луч не задан
func (w *World) DebugRayResult() (RaycastResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.debugRayResult, w.debugRaySet
}

// Render перестраивает меш не более чем одного чанка — ближайшего к
// точке наблюдения из устаревших — и передаёт его сцене. Чанк без всех
// четырёх соседей пропускается: освещение его граничных граней ещё не
// определено.
func (w *World) Render(scene RenderScene) {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := w.viewpoint.XZ()

	var best *Chunk
	var bestCoords vec.Vec2
	bestDist := 0.0

	for coords, c := range w.activeChunks {
		if !c.meshDirty || !c.HasAllFourNeighbors() {
			continue
		}
		dist := view.DistanceSquaredTo(chunkCenterPosition(coords))
		if best == nil || dist < bestDist {
			best = c
			bestCoords = coords
			bestDist = dist
		}
	}

	if best != nil {
		scene.SubmitChunkMesh(bestCoords, BuildChunkMesh(best))
		best.meshDirty = false
		metricMeshRebuilds.Inc()
	}
}

// ActivateChunk активирует чанк: загружает его из хранилища или
// генерирует, связывает с соседями и инициализирует освещение.
// Повторная активация — ошибка программирования, паника.
func (w *World) ActivateChunk(coords vec.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activateChunk(coords)
}

// DeactivateChunk сохраняет изменённый чанк и выводит его из мира.
// Деактивация неактивного чанка — ошибка программирования, паника.
func (w *World) DeactivateChunk(coords vec.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deactivateChunk(coords)
}

// DeactivateAll деактивирует все активные чанки, сохраняя изменённые.
// Вызывается при остановке сервера.
func (w *World) DeactivateAll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	coords := make([]vec.Vec2, 0, len(w.activeChunks))
	for c := range w.activeChunks {
		coords = append(coords, c)
	}
	for _, c := range coords {
		w.deactivateChunk(c)
	}
}

// BlockInfo — срез состояния одного блока для внешних запросов
type BlockInfo struct {
	TypeIndex    block.TypeIndex
	TypeName     string
	IndoorLight  int
	OutdoorLight int
	IsSky        bool
}

// BlockInfoAtPosition возвращает состояние блока по мировым
// координатам. Второй результат false, если блок вне активного мира.
func (w *World) BlockInfoAtPosition(position vec.Vec3) (BlockInfo, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	locator := w.blockLocatorForWorldPosition(position)
	if !locator.IsValid() {
		return BlockInfo{}, false
	}
	b := locator.GetBlock()
	return BlockInfo{
		TypeIndex:    b.TypeIndex(),
		TypeName:     b.Type().Name,
		IndoorLight:  b.IndoorLight(),
		OutdoorLight: b.OutdoorLight(),
		IsSky:        b.IsSky(),
	}, true
}

// SetBlockAtPosition меняет тип блока по мировым координатам и
// запускает пересчёт неба и освещения вокруг него
func (w *World) SetBlockAtPosition(position vec.Vec3, typeIndex block.TypeIndex) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	locator := w.blockLocatorForWorldPosition(position)
	if !locator.IsValid() {
		return false
	}
	w.setBlockTypeAndRelight(locator, typeIndex)
	return true
}

// DigAlongRay трассирует луч и выкапывает первый задетый твёрдый блок
func (w *World) DigAlongRay(start, direction vec.Vec3Float, maxDistance float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	result := w.castRay(start, direction, maxDistance)
	// Луч может упереться в край активного мира: там блок-заглушка,
	// копать нечего
	if !result.Hit || !result.BlockLocator.IsValid() {
		return false
	}
	w.setBlockTypeAndRelight(result.BlockLocator, block.AirTypeIndex)
	metricBlockEdits.WithLabelValues("dig").Inc()
	return true
}

// PlaceAlongRay трассирует луч и ставит блок вплотную к задетой грани.
// Блок не ставится, если луч промахнулся или целевая ячейка занята.
func (w *World) PlaceAlongRay(start, direction vec.Vec3Float, maxDistance float64, typeIndex block.TypeIndex) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	result := w.castRay(start, direction, maxDistance)
	if !result.Hit || !result.BlockLocator.IsValid() {
		return false
	}

	var target BlockLocator
	normal := result.ImpactNormal
	switch {
	case normal.X > 0:
		target = result.BlockLocator.ToEast()
	case normal.X < 0:
		target = result.BlockLocator.ToWest()
	case normal.Y > 0:
		target = result.BlockLocator.ToAbove()
	case normal.Y < 0:
		target = result.BlockLocator.ToBelow()
	case normal.Z > 0:
		target = result.BlockLocator.ToNorth()
	default:
		target = result.BlockLocator.ToSouth()
	}

	if !target.IsValid() || target.GetBlock().Type().IsSolid {
		return false
	}
	w.setBlockTypeAndRelight(target, typeIndex)
	metricBlockEdits.WithLabelValues("place").Inc()
	return true
}

// --- Активация и деактивация ---

func (w *World) activateNearestChunk() {
	view := w.viewpoint.XZ()
	center := ChunkCoordsForWorldPosition(w.viewpoint)
	radiusChunks := int(w.activationRange)/ChunkDimX + 1
	rangeSq := w.activationRange * w.activationRange

	var best vec.Vec2
	bestDist := 0.0
	found := false

	for cz := center.Y - radiusChunks; cz <= center.Y+radiusChunks; cz++ {
		for cx := center.X - radiusChunks; cx <= center.X+radiusChunks; cx++ {
			coords := vec.Vec2{X: cx, Y: cz}
			if _, active := w.activeChunks[coords]; active {
				continue
			}
			dist := view.DistanceSquaredTo(chunkCenterPosition(coords))
			if dist > rangeSq {
				continue
			}
			if !found || dist < bestDist {
				best = coords
				bestDist = dist
				found = true
			}
		}
	}

	if found {
		w.activateChunk(best)
	}
}

func (w *World) deactivateFarthestChunk() {
	view := w.viewpoint.XZ()
	threshold := w.activationRange + w.deactivationOffset
	thresholdSq := threshold * threshold

	var worst vec.Vec2
	worstDist := 0.0
	found := false

	for coords := range w.activeChunks {
		dist := view.DistanceSquaredTo(chunkCenterPosition(coords))
		if dist <= thresholdSq {
			continue
		}
		if !found || dist > worstDist {
			worst = coords
			worstDist = dist
			found = true
		}
	}

	if found {
		w.deactivateChunk(worst)
	}
}

// chunkCenterPosition возвращает горизонтальный центр чанка в блоках
func chunkCenterPosition(coords vec.Vec2) vec.Vec2Float {
	return vec.Vec2Float{
		X: float64(coords.X*ChunkDimX + ChunkDimX/2),
		Y: float64(coords.Y*ChunkDimZ + ChunkDimZ/2),
	}
}

func (w *World) activateChunk(coords vec.Vec2) {
	if _, exists := w.activeChunks[coords]; exists {
		panic(fmt.Sprintf("world: повторная активация чанка (%d, %d)", coords.X, coords.Y))
	}

	c := NewChunk(coords)
	fromFile := w.loadOrGenerateChunk(c)
	w.activeChunks[coords] = c

	// Двусторонняя связь с соседями; их меши перестраиваются,
	// так как у граничных блоков появился сосед
	if n, ok := w.activeChunks[coords.East()]; ok {
		c.neighborEast = n
		n.neighborWest = c
		n.meshDirty = true
	}
	if n, ok := w.activeChunks[coords.West()]; ok {
		c.neighborWest = n
		n.neighborEast = c
		n.meshDirty = true
	}
	if n, ok := w.activeChunks[coords.North()]; ok {
		c.neighborNorth = n
		n.neighborSouth = c
		n.meshDirty = true
	}
	if n, ok := w.activeChunks[coords.South()]; ok {
		c.neighborSouth = n
		n.neighborNorth = c
		n.meshDirty = true
	}

	w.initializeChunkLighting(c)

	metricActiveChunks.Set(float64(len(w.activeChunks)))
	source := "generated"
	if fromFile {
		source = "file"
	}
	metricChunkActivations.WithLabelValues(source).Inc()
	logging.LogChunkActivated(coords.X, coords.Y, fromFile)
}

// loadOrGenerateChunk наполняет чанк из хранилища; при отсутствии или
// непригодности записи чанк генерируется заново из шума
func (w *World) loadOrGenerateChunk(c *Chunk) bool {
	if w.store != nil {
		types, err := w.store.LoadChunk(c.coords)
		if err == nil {
			c.ApplyTypeIndexes(types)
			return true
		}
		if !errors.Is(err, storage.ErrChunkNotFound) {
			logging.LogChunkLoadFallback(c.coords.X, c.coords.Y, err)
		}
	}
	c.GenerateWithPerlinNoise(w.noise, w.genParams)
	return false
}

func (w *World) deactivateChunk(coords vec.Vec2) {
	c, exists := w.activeChunks[coords]
	if !exists {
		panic(fmt.Sprintf("world: деактивация неактивного чанка (%d, %d)", coords.X, coords.Y))
	}

	saved := false
	if c.needsSave && w.store != nil {
		if err := w.store.SaveChunk(coords, c.CopyTypeIndexes()); err != nil {
			logging.LogChunkSaveError(coords.X, coords.Y, err)
		} else {
			c.needsSave = false
			saved = true
		}
	}

	if c.neighborEast != nil {
		c.neighborEast.neighborWest = nil
		c.neighborEast.meshDirty = true
	}
	if c.neighborWest != nil {
		c.neighborWest.neighborEast = nil
		c.neighborWest.meshDirty = true
	}
	if c.neighborNorth != nil {
		c.neighborNorth.neighborSouth = nil
		c.neighborNorth.meshDirty = true
	}
	if c.neighborSouth != nil {
		c.neighborSouth.neighborNorth = nil
		c.neighborSouth.meshDirty = true
	}

	delete(w.activeChunks, coords)
	w.purgeLightingQueueForChunk(c)

	metricActiveChunks.Set(float64(len(w.activeChunks)))
	metricChunkDeactivations.Inc()
	logging.LogChunkDeactivated(coords.X, coords.Y, saved)
}

// purgeLightingQueueForChunk убирает из очереди локаторы, указывающие
// в деактивированный чанк
func (w *World) purgeLightingQueueForChunk(c *Chunk) {
	kept := w.lightingQueue[:0]
	for _, l := range w.lightingQueue {
		if l.chunk == c {
			continue
		}
		kept = append(kept, l)
	}
	w.lightingQueue = kept
}

// --- Освещение ---

// initializeChunkLighting выполняет начальную расстановку света в
// свежеактивированном чанке: размечает небесные колонки, ставит в
// очередь источники света и кромки на границах с соседями
func (w *World) initializeChunkLighting(c *Chunk) {
	// Небесные колонки: сверху вниз до первого непрозрачного блока
	for z := 0; z < ChunkDimZ; z++ {
		for x := 0; x < ChunkDimX; x++ {
			for y := ChunkDimY - 1; y >= 0; y-- {
				index := BlockIndexForChunkCoords(x, y, z)
				b := &c.blocks[index]
				if b.Type().IsFullyOpaque {
					break
				}
				b.SetIsSky(true)
				b.SetOutdoorLight(MaxLightValue)

				// Свет растекается вбок под навесы
				locator := c.BlockLocatorForIndex(index)
				horizontals := [4]BlockLocator{
					locator.ToEast(), locator.ToWest(),
					locator.ToNorth(), locator.ToSouth(),
				}
				for _, n := range horizontals {
					nb := n.GetBlock()
					if !nb.Type().IsFullyOpaque && !nb.IsSky() {
						w.enqueueLightingUpdate(n)
					}
				}
			}
		}
	}

	// Источники собственного света
	for i := range c.blocks {
		if c.blocks[i].Type().InternalLight > 0 {
			w.enqueueLightingUpdate(c.BlockLocatorForIndex(i))
		}
	}

	w.seedEdgePlanes(c)
}

// seedEdgePlanes ставит в очередь граничные плоскости чанка и его
// соседей: свет уже устоявшихся чанков должен перетечь в новый и
// обратно
func (w *World) seedEdgePlanes(c *Chunk) {
	for y := 0; y < ChunkDimY; y++ {
		for t := 0; t < ChunkDimZ; t++ {
			if c.neighborEast != nil {
				w.enqueueIfTranslucent(c, BlockIndexForChunkCoords(ChunkMaskX, y, t))
				w.enqueueIfTranslucent(c.neighborEast, BlockIndexForChunkCoords(0, y, t))
			}
			if c.neighborWest != nil {
				w.enqueueIfTranslucent(c, BlockIndexForChunkCoords(0, y, t))
				w.enqueueIfTranslucent(c.neighborWest, BlockIndexForChunkCoords(ChunkMaskX, y, t))
			}
			if c.neighborNorth != nil {
				w.enqueueIfTranslucent(c, BlockIndexForChunkCoords(t, y, ChunkMaskZ))
				w.enqueueIfTranslucent(c.neighborNorth, BlockIndexForChunkCoords(t, y, 0))
			}
			if c.neighborSouth != nil {
				w.enqueueIfTranslucent(c, BlockIndexForChunkCoords(t, y, 0))
				w.enqueueIfTranslucent(c.neighborSouth, BlockIndexForChunkCoords(t, y, ChunkMaskZ))
			}
		}
	}
}

func (w *World) enqueueIfTranslucent(c *Chunk, index int) {
	if c.blocks[index].Type().IsFullyOpaque {
		return
	}
	w.enqueueLightingUpdate(c.BlockLocatorForIndex(index))
}

// enqueueLightingUpdate ставит блок в очередь пересчёта освещения.
// Блок, уже стоящий в очереди, повторно не добавляется.
func (w *World) enqueueLightingUpdate(locator BlockLocator) {
	if !locator.IsValid() {
		return
	}
	b := locator.GetBlock()
	if b.IsInLightingQueue() {
		return
	}
	b.SetIsInLightingQueue(true)
	w.lightingQueue = append(w.lightingQueue, locator)
}

// popLightingQueue снимает первый блок с очереди.
// Выборка из пустой очереди — ошибка программирования, паника.
func (w *World) popLightingQueue() BlockLocator {
	if len(w.lightingQueue) == 0 {
		panic("world: выборка из пустой очереди освещения")
	}
	locator := w.lightingQueue[0]
	w.lightingQueue = w.lightingQueue[1:]
	locator.GetBlock().SetIsInLightingQueue(false)
	return locator
}

// drainLightingQueue пересчитывает освещение до неподвижной точки
func (w *World) drainLightingQueue() {
	seeded := len(w.lightingQueue)
	metricLightingQueueLength.Set(float64(seeded))

	recomputed := 0
	for len(w.lightingQueue) > 0 {
		w.recomputeBlockLighting(w.popLightingQueue())
		recomputed++
	}
	w.lightingQueue = nil

	if recomputed > 0 {
		logging.LogLightingDrain(seeded, recomputed)
	}
}

// recomputeBlockLighting пересчитывает обе составляющие света блока.
// При изменении в очередь ставятся все шесть соседей, поэтому волна
// распространяется ровно до тех блоков, где свет перестаёт меняться.
func (w *World) recomputeBlockLighting(locator BlockLocator) {
	metricLightingRecomputes.Inc()

	b := locator.GetBlock()
	t := b.Type()

	neighbors := [6]BlockLocator{
		locator.ToEast(), locator.ToWest(),
		locator.ToNorth(), locator.ToSouth(),
		locator.ToAbove(), locator.ToBelow(),
	}

	maxIndoor, maxOutdoor := 0, 0
	for _, n := range neighbors {
		nb := n.GetBlock()
		if nb.IndoorLight() > maxIndoor {
			maxIndoor = nb.IndoorLight()
		}
		if nb.OutdoorLight() > maxOutdoor {
			maxOutdoor = nb.OutdoorLight()
		}
	}

	// Комнатный свет: собственное свечение либо свет соседей с
	// затуханием на единицу
	expectedIndoor := t.InternalLight
	if !t.IsFullyOpaque && maxIndoor-1 > expectedIndoor {
		expectedIndoor = maxIndoor - 1
	}

	// Уличный свет: небо даёт максимум, непрозрачный блок не
	// освещается, остальное — затухание от соседей
	var expectedOutdoor int
	switch {
	case b.IsSky():
		expectedOutdoor = MaxLightValue
	case t.IsFullyOpaque:
		expectedOutdoor = 0
	default:
		expectedOutdoor = maxOutdoor - 1
		if expectedOutdoor < 0 {
			expectedOutdoor = 0
		}
	}

	if expectedIndoor == b.IndoorLight() && expectedOutdoor == b.OutdoorLight() {
		return
	}

	b.SetIndoorLight(expectedIndoor)
	b.SetOutdoorLight(expectedOutdoor)
	locator.chunk.markMeshDirtyAt(locator.blockIndex)

	for _, n := range neighbors {
		w.enqueueLightingUpdate(n)
	}
}

// recomputeSkyColumn переразмечает небесную колонку после изменения
// блока: поставленный непрозрачный блок гасит небо под собой, а
// выкопанный под небом — открывает его вниз
func (w *World) recomputeSkyColumn(c *Chunk, x, z int) {
	open := true
	for y := ChunkDimY - 1; y >= 0; y-- {
		index := BlockIndexForChunkCoords(x, y, z)
		b := &c.blocks[index]
		opaque := b.Type().IsFullyOpaque

		newSky := open && !opaque
		if opaque {
			open = false
		}
		if newSky != b.IsSky() {
			b.SetIsSky(newSky)
			w.enqueueLightingUpdate(c.BlockLocatorForIndex(index))
		}
	}
}

// setBlockTypeAndRelight меняет тип блока и запускает пересчёт неба
// и освещения вокруг него
func (w *World) setBlockTypeAndRelight(locator BlockLocator, typeIndex block.TypeIndex) {
	c := locator.chunk
	c.SetBlockType(locator.blockIndex, typeIndex)

	x, _, z := ChunkCoordsForBlockIndex(locator.blockIndex)
	w.recomputeSkyColumn(c, x, z)

	w.enqueueLightingUpdate(locator)
	w.enqueueLightingUpdate(locator.ToEast())
	w.enqueueLightingUpdate(locator.ToWest())
	w.enqueueLightingUpdate(locator.ToNorth())
	w.enqueueLightingUpdate(locator.ToSouth())
	w.enqueueLightingUpdate(locator.ToAbove())
	w.enqueueLightingUpdate(locator.ToBelow())
}

// --- Поиск блоков ---

// blockLocatorForWorldPosition возвращает локатор блока по мировым
// координатам; для позиции вне активного мира локатор недействителен
func (w *World) blockLocatorForWorldPosition(position vec.Vec3) BlockLocator {
	if position.Y < 0 || position.Y >= ChunkDimY {
		return BlockLocator{}
	}
	coords := vec.Vec2{X: position.X >> ChunkBitsX, Y: position.Z >> ChunkBitsZ}
	c, ok := w.activeChunks[coords]
	if !ok {
		return BlockLocator{}
	}
	index := BlockIndexForChunkCoords(
		position.X&ChunkMaskX,
		position.Y,
		position.Z&ChunkMaskZ,
	)
	return BlockLocator{chunk: c, blockIndex: index}
}
