package world

import (
	"github.com/annel0/voxel-game/internal/world/block"
)

// Максимальное значение уровня освещённости
const MaxLightValue = 15

// Флаги состояния блока
const (
	blockFlagSky     uint8 = 1 << 0 // блок видит небо по вертикали
	blockFlagInQueue uint8 = 1 << 1 // блок уже стоит в очереди пересчёта света
)

// Block — один воксель чанка. Хранится в плотном массиве чанка,
// поэтому упакован в 3 байта: индекс типа, два полубайта света и флаги.
type Block struct {
	typeIndex block.TypeIndex

	// Старший полубайт — уличный свет, младший — комнатный
	light uint8

	flags uint8
}

// missingBlock — блок за границей активного мира. Непрозрачный,
// твёрдый и несветящийся, чтобы обход соседей не требовал проверок
// на nil. Возвращается только по указателю и никогда не изменяется.
var missingBlock = Block{typeIndex: block.MissingTypeIndex}

func init() {
	block.Register(&block.Type{
		Index:         block.MissingTypeIndex,
		Name:          "Missing",
		IsSolid:       true,
		IsFullyOpaque: true,
	})
}

// TypeIndex возвращает индекс типа блока
func (b *Block) TypeIndex() block.TypeIndex {
	return b.typeIndex
}

// Type возвращает описание типа блока из регистра
func (b *Block) Type() *block.Type {
	t, exists := block.GetByIndex(b.typeIndex)
	if !exists {
		t, _ = block.GetByIndex(block.MissingTypeIndex)
	}
	return t
}

// IsMissing возвращает true для блока за границей мира
func (b *Block) IsMissing() bool {
	return b.typeIndex == block.MissingTypeIndex
}

// OutdoorLight возвращает уличную освещённость блока, 0..15
func (b *Block) OutdoorLight() int {
	return int(b.light >> 4)
}

// IndoorLight возвращает комнатную освещённость блока, 0..15
func (b *Block) IndoorLight() int {
	return int(b.light & 0x0F)
}

// Light возвращает итоговую освещённость блока: максимум из уличной
// и комнатной составляющих
func (b *Block) Light() int {
	outdoor := b.OutdoorLight()
	indoor := b.IndoorLight()
	if outdoor > indoor {
		return outdoor
	}
	return indoor
}

// SetOutdoorLight записывает уличную освещённость, 0..15
func (b *Block) SetOutdoorLight(value int) {
	b.light = (b.light & 0x0F) | (uint8(value) << 4)
}

// SetIndoorLight записывает комнатную освещённость, 0..15
func (b *Block) SetIndoorLight(value int) {
	b.light = (b.light & 0xF0) | (uint8(value) & 0x0F)
}

// IsSky возвращает true, если над блоком нет непрозрачных блоков
func (b *Block) IsSky() bool {
	return b.flags&blockFlagSky != 0
}

// SetIsSky помечает блок как видящий небо
func (b *Block) SetIsSky(sky bool) {
	if sky {
		b.flags |= blockFlagSky
	} else {
		b.flags &^= blockFlagSky
	}
}

// IsInLightingQueue возвращает true, если блок уже поставлен в очередь
// пересчёта освещения. Флаг исключает повторную постановку.
func (b *Block) IsInLightingQueue() bool {
	return b.flags&blockFlagInQueue != 0
}

// SetIsInLightingQueue помечает блок состоящим в очереди пересчёта
func (b *Block) SetIsInLightingQueue(inQueue bool) {
	if inQueue {
		b.flags |= blockFlagInQueue
	} else {
		b.flags &^= blockFlagInQueue
	}
}
