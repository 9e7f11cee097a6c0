package world

import (
	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world/block"
)

// Vertex — вершина меша чанка
type Vertex struct {
	Position [3]float32
	UV       [2]float32
	Normal   [3]float32
	Tangent  [3]float32
	Color    [3]float32
}

// Mesh — треугольный меш чанка, готовый к передаче в рендер
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// RenderScene принимает построенные меши чанков. Реализуется
// рендером; мир о графическом API ничего не знает.
type RenderScene interface {
	SubmitChunkMesh(coords vec.Vec2, mesh *Mesh)
}

// faceKind различает грани для выбора текстуры
type faceKind int

const (
	faceTop faceKind = iota
	faceBottom
	faceSide
)

// faceDef описывает геометрию одной грани единичного куба
type faceDef struct {
	kind    faceKind
	normal  [3]float32
	tangent [3]float32
	// Углы грани против часовой стрелки при взгляде снаружи
	corners [4][3]float32
	// Переход к соседнему блоку за гранью
	step func(BlockLocator) BlockLocator
}

var cubeFaces = [6]faceDef{
	{ // +Y
		kind:    faceTop,
		normal:  [3]float32{0, 1, 0},
		tangent: [3]float32{1, 0, 0},
		corners: [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
		step:    BlockLocator.ToAbove,
	},
	{ // -Y
		kind:    faceBottom,
		normal:  [3]float32{0, -1, 0},
		tangent: [3]float32{1, 0, 0},
		corners: [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
		step:    BlockLocator.ToBelow,
	},
	{ // +X
		kind:    faceSide,
		normal:  [3]float32{1, 0, 0},
		tangent: [3]float32{0, 0, 1},
		corners: [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
		step:    BlockLocator.ToEast,
	},
	{ // -X
		kind:    faceSide,
		normal:  [3]float32{-1, 0, 0},
		tangent: [3]float32{0, 0, -1},
		corners: [4][3]float32{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}},
		step:    BlockLocator.ToWest,
	},
	{ // +Z
		kind:    faceSide,
		normal:  [3]float32{0, 0, 1},
		tangent: [3]float32{-1, 0, 0},
		corners: [4][3]float32{{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}},
		step:    BlockLocator.ToNorth,
	},
	{ // -Z
		kind:    faceSide,
		normal:  [3]float32{0, 0, -1},
		tangent: [3]float32{1, 0, 0},
		corners: [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
		step:    BlockLocator.ToSouth,
	},
}

// BuildChunkMesh строит меш чанка со скрытием невидимых граней.
// Грань добавляется, только если соседний блок не полностью
// непрозрачен; её яркость берётся из освещённости соседа, чтобы
// свет падал на поверхность снаружи.
func BuildChunkMesh(c *Chunk) *Mesh {
	mesh := &Mesh{}
	origin := c.OriginWorldPosition()

	for index := 0; index < BlocksPerChunk; index++ {
		b := &c.blocks[index]
		t := b.Type()
		if !t.IsVisible() {
			continue
		}

		x, y, z := ChunkCoordsForBlockIndex(index)
		base := [3]float32{
			float32(origin.X + x),
			float32(y),
			float32(origin.Z + z),
		}
		locator := c.BlockLocatorForIndex(index)

		for f := range cubeFaces {
			face := &cubeFaces[f]
			neighbor := face.step(locator).GetBlock()
			if neighbor.Type().IsFullyOpaque {
				continue
			}

			brightness := float32(neighbor.Light()) / float32(MaxLightValue)
			appendFace(mesh, face, base, faceUVs(t, face.kind), brightness)
		}
	}

	return mesh
}

func faceUVs(t *block.Type, kind faceKind) block.UVRect {
	switch kind {
	case faceTop:
		return t.TopUVs
	case faceBottom:
		return t.BottomUVs
	default:
		return t.SideUVs
	}
}

func appendFace(mesh *Mesh, face *faceDef, base [3]float32, uvs block.UVRect, brightness float32) {
	faceCornerUVs := [4][2]float32{
		{uvs.MinU, uvs.MaxV},
		{uvs.MinU, uvs.MinV},
		{uvs.MaxU, uvs.MinV},
		{uvs.MaxU, uvs.MaxV},
	}

	start := uint32(len(mesh.Vertices))
	for i := 0; i < 4; i++ {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: [3]float32{
				base[0] + face.corners[i][0],
				base[1] + face.corners[i][1],
				base[2] + face.corners[i][2],
			},
			UV:      faceCornerUVs[i],
			Normal:  face.normal,
			Tangent: face.tangent,
			Color:   [3]float32{brightness, brightness, brightness},
		})
	}
	mesh.Indices = append(mesh.Indices,
		start, start+1, start+2,
		start, start+2, start+3,
	)
}
