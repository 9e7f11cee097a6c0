package world

import (
	"github.com/annel0/voxel-game/internal/vec"
)

// Число проверок на один блок пути луча
const raycastStepsPerBlock = 100

// RaycastResult — результат трассировки луча по блокам мира
type RaycastResult struct {
	// Hit — луч упёрся в твёрдый блок
	Hit bool

	// Fraction — доля пройденной длины луча, 0..1.
	// Для промаха всегда 1.
	Fraction float64

	// ImpactPoint — точка, в которой луч остановился
	ImpactPoint vec.Vec3Float

	// ImpactNormal — нормаль грани, в которую попал луч.
	// Для промаха направлена навстречу лучу.
	ImpactNormal vec.Vec3Float

	// BlockLocator указывает на задетый блок; для промаха недействителен
	BlockLocator BlockLocator
}

// Raycast трассирует луч из точки start в направлении direction на
// расстояние maxDistance. Луч продвигается мелкими шагами; при
// переходе в новый блок пересечённые оси разрешаются по одной в
// порядке X, Y, Z, поэтому нормаль всегда совпадает с гранью входа.
func (w *World) Raycast(start, direction vec.Vec3Float, maxDistance float64) RaycastResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.castRay(start, direction, maxDistance)
}

func (w *World) castRay(start, direction vec.Vec3Float, maxDistance float64) RaycastResult {
	direction = direction.Normalized()

	stepLength := 1.0 / raycastStepsPerBlock
	step := direction.Mul(stepLength)
	numSteps := int(maxDistance * raycastStepsPerBlock)

	position := start
	lastFloored := position.Floor()

	for i := 0; i < numSteps; i++ {
		position = position.Add(step)
		floored := position.Floor()
		if floored.Equals(lastFloored) {
			continue
		}

		diff := floored.Sub(lastFloored)

		// Пересечённые за шаг оси разбираются по очереди: так при
		// диагональном переходе луч попадает в ближайшую грань
		current := lastFloored
		for axis := 0; axis < 3; axis++ {
			var axisStep vec.Vec3
			switch axis {
			case 0:
				axisStep = vec.Vec3{X: diff.X}
			case 1:
				axisStep = vec.Vec3{Y: diff.Y}
			default:
				axisStep = vec.Vec3{Z: diff.Z}
			}
			if axisStep.Equals(vec.Vec3{}) {
				continue
			}

			current = current.Add(axisStep)
			locator := w.blockLocatorForWorldPosition(current)
			if !locator.GetBlock().Type().IsSolid {
				continue
			}

			return RaycastResult{
				Hit:      true,
				Fraction: float64(i+1) * stepLength / maxDistance,
				ImpactPoint: vec.Vec3Float{
					X: position.X,
					Y: position.Y,
					Z: position.Z,
				},
				ImpactNormal: vec.Vec3Float{
					X: float64(-axisStep.X),
					Y: float64(-axisStep.Y),
					Z: float64(-axisStep.Z),
				},
				BlockLocator: locator,
			}
		}

		lastFloored = floored
	}

	return RaycastResult{
		Hit:          false,
		Fraction:     1.0,
		ImpactPoint:  start.Add(direction.Mul(maxDistance)),
		ImpactNormal: direction.Mul(-1),
		BlockLocator: InvalidBlockLocator(),
	}
}
