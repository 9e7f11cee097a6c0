package world

import (
	"math"

	"github.com/annel0/voxel-game/internal/util"
	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world/block"
)

// Размеры чанка задаются в битах, чтобы преобразования индексов
// сводились к сдвигам и маскам
const (
	ChunkBitsX = 4
	ChunkBitsY = 6
	ChunkBitsZ = 4

	ChunkDimX = 1 << ChunkBitsX // 16
	ChunkDimY = 1 << ChunkBitsY // 64
	ChunkDimZ = 1 << ChunkBitsZ // 16

	ChunkMaskX = ChunkDimX - 1
	ChunkMaskY = ChunkDimY - 1
	ChunkMaskZ = ChunkDimZ - 1

	// Блоков в одном горизонтальном слое чанка
	BlocksPerYLayer = ChunkDimX * ChunkDimZ

	// Всего блоков в чанке
	BlocksPerChunk = ChunkDimX * ChunkDimY * ChunkDimZ
)

// Длина волны шума рельефа в блоках
const terrainNoiseWavelength = 50.0

// GenerationParams — параметры генерации рельефа
type GenerationParams struct {
	BaseElevation int
	MaxDeviation  int
	SeaLevel      int
}

// Chunk — столб мира 16x64x16 блоков. Блоки лежат в одном плотном
// массиве, индекс считается как y*256 + z*16 + x. Чанк знает своих
// четырёх горизонтальных соседей, что позволяет локаторам и свету
// пересекать границы без обращения к миру.
type Chunk struct {
	coords vec.Vec2 // координаты чанка по осям X/Z

	blocks [BlocksPerChunk]Block

	neighborEast  *Chunk
	neighborWest  *Chunk
	neighborNorth *Chunk
	neighborSouth *Chunk

	meshDirty bool
	needsSave bool
}

// NewChunk создаёт чанк, заполненный воздухом
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{coords: coords}
}

// Coords возвращает координаты чанка
func (c *Chunk) Coords() vec.Vec2 {
	return c.coords
}

// Block возвращает блок по индексу
func (c *Chunk) Block(index int) *Block {
	return &c.blocks[index]
}

// BlockLocatorForIndex возвращает локатор блока этого чанка
func (c *Chunk) BlockLocatorForIndex(index int) BlockLocator {
	return BlockLocator{chunk: c, blockIndex: index}
}

// BlockIndexForChunkCoords преобразует локальные координаты блока
// в индекс массива
func BlockIndexForChunkCoords(x, y, z int) int {
	return y*BlocksPerYLayer + z*ChunkDimX + x
}

// ChunkCoordsForBlockIndex преобразует индекс массива в локальные
// координаты блока
func ChunkCoordsForBlockIndex(index int) (x, y, z int) {
	x = index & ChunkMaskX
	z = (index >> ChunkBitsX) & ChunkMaskZ
	y = index >> (ChunkBitsX + ChunkBitsZ)
	return
}

// OriginWorldPosition возвращает мировые координаты блока (0,0,0) чанка
func (c *Chunk) OriginWorldPosition() vec.Vec3 {
	return vec.Vec3{X: c.coords.X * ChunkDimX, Y: 0, Z: c.coords.Y * ChunkDimZ}
}

// WorldPositionForBlockIndex возвращает мировые координаты блока
func (c *Chunk) WorldPositionForBlockIndex(index int) vec.Vec3 {
	x, y, z := ChunkCoordsForBlockIndex(index)
	origin := c.OriginWorldPosition()
	return vec.Vec3{X: origin.X + x, Y: y, Z: origin.Z + z}
}

// SetBlockType меняет тип блока и помечает чанк изменённым
func (c *Chunk) SetBlockType(index int, typeIndex block.TypeIndex) {
	c.blocks[index].typeIndex = typeIndex
	c.needsSave = true
	c.markMeshDirtyAt(index)
}

// markMeshDirtyAt помечает устаревшим меш чанка, а для блока на
// границе — и меши соседей: у них могли открыться или закрыться грани
func (c *Chunk) markMeshDirtyAt(index int) {
	c.meshDirty = true

	x, _, z := ChunkCoordsForBlockIndex(index)
	if x == 0 && c.neighborWest != nil {
		c.neighborWest.meshDirty = true
	}
	if x == ChunkMaskX && c.neighborEast != nil {
		c.neighborEast.meshDirty = true
	}
	if z == 0 && c.neighborSouth != nil {
		c.neighborSouth.meshDirty = true
	}
	if z == ChunkMaskZ && c.neighborNorth != nil {
		c.neighborNorth.meshDirty = true
	}
}

// MarkMeshDirty помечает меш чанка устаревшим
func (c *Chunk) MarkMeshDirty() {
	c.meshDirty = true
}

// IsMeshDirty возвращает true, если меш чанка нужно перестроить
func (c *Chunk) IsMeshDirty() bool {
	return c.meshDirty
}

// NeedsSave возвращает true, если чанк менялся после загрузки
func (c *Chunk) NeedsSave() bool {
	return c.needsSave
}

// MarkSaved сбрасывает признак несохранённых изменений
func (c *Chunk) MarkSaved() {
	c.needsSave = false
}

// HasAllFourNeighbors возвращает true, когда активны все четыре
// горизонтальных соседа. Только в этом случае меш чанка можно
// построить с корректным освещением граничных граней.
func (c *Chunk) HasAllFourNeighbors() bool {
	return c.neighborEast != nil && c.neighborWest != nil &&
		c.neighborNorth != nil && c.neighborSouth != nil
}

// CopyTypeIndexes возвращает срез индексов типов всех блоков чанка
// в порядке их хранения. Используется при сериализации.
func (c *Chunk) CopyTypeIndexes() []block.TypeIndex {
	out := make([]block.TypeIndex, BlocksPerChunk)
	for i := range c.blocks {
		out[i] = c.blocks[i].typeIndex
	}
	return out
}

// ApplyTypeIndexes восстанавливает блоки чанка из индексов типов.
// Освещение не восстанавливается: оно пересчитывается после активации.
func (c *Chunk) ApplyTypeIndexes(indexes []block.TypeIndex) {
	for i := range c.blocks {
		c.blocks[i] = Block{typeIndex: indexes[i]}
	}
	c.meshDirty = true
}

// GenerateWithPerlinNoise заполняет чанк рельефом по шуму Перлина.
// Высота колонки считается от шума в её центре, поэтому результат
// детерминирован для данного зерна и координат.
func (c *Chunk) GenerateWithPerlinNoise(noise *util.NoiseGenerator, params GenerationParams) {
	origin := c.OriginWorldPosition()

	for z := 0; z < ChunkDimZ; z++ {
		for x := 0; x < ChunkDimX; x++ {
			sampleX := float64(origin.X+x) + 0.5
			sampleZ := float64(origin.Z+z) + 0.5
			sample := noise.Noise2D(sampleX, sampleZ, terrainNoiseWavelength)

			elevation := int(math.Round(sample*float64(params.MaxDeviation))) + params.BaseElevation
			c.generateColumn(x, z, elevation, params.SeaLevel)
		}
	}

	c.meshDirty = true
	c.needsSave = true
}

// generateColumn заполняет одну вертикальную колонку блоков
func (c *Chunk) generateColumn(x, z, elevation, seaLevel int) {
	for y := 0; y < ChunkDimY; y++ {
		index := BlockIndexForChunkCoords(x, y, z)

		var typeIndex block.TypeIndex
		switch {
		case elevation >= seaLevel:
			// Суша: трава сверху, под ней три слоя земли, ниже камень
			switch {
			case y >= elevation:
				typeIndex = block.AirTypeIndex
			case y == elevation-1:
				typeIndex = block.GrassTypeIndex
			case y >= elevation-4:
				typeIndex = block.DirtTypeIndex
			default:
				typeIndex = block.StoneTypeIndex
			}
		default:
			// Дно ниже уровня моря: вода до уровня моря, мелководное
			// дно из земли, глубина из камня
			switch {
			case y >= seaLevel:
				typeIndex = block.AirTypeIndex
			case y >= elevation:
				typeIndex = block.WaterTypeIndex
			case y > seaLevel-4:
				typeIndex = block.DirtTypeIndex
			default:
				typeIndex = block.StoneTypeIndex
			}
		}

		c.blocks[index] = Block{typeIndex: typeIndex}
	}
}
