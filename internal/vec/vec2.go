package vec

// Vec2 представляет целочисленные 2D координаты.
// Используется для координат чанков в горизонтальной плоскости:
// X — мировая ось X (восток), Y — мировая ось Z (север).
type Vec2 struct {
	X, Y int
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Equals проверяет равенство векторов
func (v Vec2) Equals(other Vec2) bool {
	return v.X == other.X && v.Y == other.Y
}

// East возвращает координаты восточного соседа (X+1)
func (v Vec2) East() Vec2 { return Vec2{X: v.X + 1, Y: v.Y} }

// West возвращает координаты западного соседа (X-1)
func (v Vec2) West() Vec2 { return Vec2{X: v.X - 1, Y: v.Y} }

// North возвращает координаты северного соседа (Z+1)
func (v Vec2) North() Vec2 { return Vec2{X: v.X, Y: v.Y + 1} }

// South возвращает координаты южного соседа (Z-1)
func (v Vec2) South() Vec2 { return Vec2{X: v.X, Y: v.Y - 1} }
