package util

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина. Зафиксированы: генерация ландшафта обязана
// быть детерминированной для одного и того же сида.
const (
	noiseAlpha   = 2.0 // Сглаживание шума
	noiseBeta    = 2.0 // Частота шума
	noiseOctaves = 3   // Количество октав
)

// NoiseGenerator генерирует когерентный 2D шум для ландшафта.
// Один и тот же сид и координаты всегда дают одно и то же значение.
type NoiseGenerator struct {
	seed   int64
	perlin *perlin.Perlin
}

// NewNoiseGenerator создаёт генератор шума с указанным сидом
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	return &NoiseGenerator{
		seed:   seed,
		perlin: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// Seed возвращает сид генератора
func (ng *NoiseGenerator) Seed() int64 {
	return ng.seed
}

// Noise2D возвращает значение шума в диапазоне [-1, 1] для мировых
// координат (x, y). wavelength задаёт масштаб: расстояние, на котором
// шум меняется на один период.
func (ng *NoiseGenerator) Noise2D(x, y, wavelength float64) float64 {
	return ng.perlin.Noise2D(x/wavelength, y/wavelength)
}
