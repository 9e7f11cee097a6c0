package vec

import "math"

// Vec2Float представляет 2D координаты с плавающей точкой
// в горизонтальной плоскости мира (X/Z).
type Vec2Float struct {
	X, Y float64
}

// FromVec2 создает Vec2Float из Vec2
func FromVec2(v Vec2) Vec2Float {
	return Vec2Float{X: float64(v.X), Y: float64(v.Y)}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSquared возвращает квадрат длины вектора.
// Используется при сравнении расстояний, чтобы не вычислять корень.
func (v Vec2Float) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	return v.Sub(other).Length()
}

// DistanceSquaredTo вычисляет квадрат расстояния до другой точки
func (v Vec2Float) DistanceSquaredTo(other Vec2Float) float64 {
	return v.Sub(other).LengthSquared()
}
