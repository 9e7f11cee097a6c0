package block

// UVRect задаёт прямоугольник текстурных координат на атласе
type UVRect struct {
	MinU, MinV float32
	MaxU, MaxV float32
}

// Размер сетки текстурного атласа (спрайтов по стороне)
const atlasGridSize = 16

// UVsForSpriteCoords возвращает UV-прямоугольник спрайта атласа по его
// координатам в сетке
func UVsForSpriteCoords(x, y int) UVRect {
	step := float32(1.0 / float64(atlasGridSize))
	return UVRect{
		MinU: float32(x) * step,
		MinV: float32(y) * step,
		MaxU: float32(x+1) * step,
		MaxV: float32(y+1) * step,
	}
}

// Type описывает тип блока: непрозрачность, твёрдость, собственное
// свечение и текстуры граней. Таблица типов неизменяема после загрузки
// и разделяется всеми чанками.
type Type struct {
	Index TypeIndex
	Name  string

	// IsSolid — блок останавливает лучи и сущности
	IsSolid bool

	// IsFullyOpaque — блок полностью перекрывает свет и соседние грани
	IsFullyOpaque bool

	// InternalLight — собственное свечение блока, 0..15
	InternalLight int

	// Текстурные координаты граней
	TopUVs    UVRect
	SideUVs   UVRect
	BottomUVs UVRect
}

// IsVisible возвращает true, если блок нужно отрисовывать
func (t *Type) IsVisible() bool {
	return t.Index != AirTypeIndex
}
