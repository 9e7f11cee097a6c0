package world

// BlockLocator — адрес блока: чанк плюс индекс в его массиве.
// Позволяет шагать к соседям без пересчёта мировых координат и
// прозрачно пересекает границы чанков через ссылки на соседей.
//
// Локатор действителен, пока его чанк активен: после деактивации
// чанка все выданные на него локаторы использовать нельзя.
type BlockLocator struct {
	chunk      *Chunk
	blockIndex int
}

// NewBlockLocator создаёт локатор блока в чанке
func NewBlockLocator(chunk *Chunk, blockIndex int) BlockLocator {
	return BlockLocator{chunk: chunk, blockIndex: blockIndex}
}

// InvalidBlockLocator возвращает локатор, не указывающий ни на один блок
func InvalidBlockLocator() BlockLocator {
	return BlockLocator{}
}

// IsValid возвращает true, если локатор указывает на блок активного чанка
func (l BlockLocator) IsValid() bool {
	return l.chunk != nil
}

// Chunk возвращает чанк локатора (nil для недействительного)
func (l BlockLocator) Chunk() *Chunk {
	return l.chunk
}

// BlockIndex возвращает индекс блока внутри чанка
func (l BlockLocator) BlockIndex() int {
	return l.blockIndex
}

// GetBlock возвращает блок, на который указывает локатор.
// Для недействительного локатора возвращается служебный
// непрозрачный блок-заглушка.
func (l BlockLocator) GetBlock() *Block {
	if l.chunk == nil {
		return &missingBlock
	}
	return &l.chunk.blocks[l.blockIndex]
}

// ToEast возвращает локатор блока на восток (+X), при необходимости
// переходя в соседний чанк
func (l BlockLocator) ToEast() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.blockIndex&ChunkMaskX != ChunkMaskX {
		return BlockLocator{chunk: l.chunk, blockIndex: l.blockIndex + 1}
	}
	return BlockLocator{chunk: l.chunk.neighborEast, blockIndex: l.blockIndex - ChunkMaskX}
}

// ToWest возвращает локатор блока на запад (-X)
func (l BlockLocator) ToWest() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.blockIndex&ChunkMaskX != 0 {
		return BlockLocator{chunk: l.chunk, blockIndex: l.blockIndex - 1}
	}
	return BlockLocator{chunk: l.chunk.neighborWest, blockIndex: l.blockIndex + ChunkMaskX}
}

// ToNorth возвращает локатор блока на север (+Z)
func (l BlockLocator) ToNorth() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if (l.blockIndex>>ChunkBitsX)&ChunkMaskZ != ChunkMaskZ {
		return BlockLocator{chunk: l.chunk, blockIndex: l.blockIndex + ChunkDimX}
	}
	return BlockLocator{chunk: l.chunk.neighborNorth, blockIndex: l.blockIndex - ChunkMaskZ*ChunkDimX}
}

// ToSouth возвращает локатор блока на юг (-Z)
func (l BlockLocator) ToSouth() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if (l.blockIndex>>ChunkBitsX)&ChunkMaskZ != 0 {
		return BlockLocator{chunk: l.chunk, blockIndex: l.blockIndex - ChunkDimX}
	}
	return BlockLocator{chunk: l.chunk.neighborSouth, blockIndex: l.blockIndex + ChunkMaskZ*ChunkDimX}
}

// ToAbove возвращает локатор блока сверху (+Y).
// Выше верхней границы чанка мира нет.
func (l BlockLocator) ToAbove() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.blockIndex < BlocksPerChunk-BlocksPerYLayer {
		return BlockLocator{chunk: l.chunk, blockIndex: l.blockIndex + BlocksPerYLayer}
	}
	return BlockLocator{}
}

// ToBelow возвращает локатор блока снизу (-Y)
func (l BlockLocator) ToBelow() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.blockIndex >= BlocksPerYLayer {
		return BlockLocator{chunk: l.chunk, blockIndex: l.blockIndex - BlocksPerYLayer}
	}
	return BlockLocator{}
}

// Equals возвращает true, если оба локатора указывают на один блок
func (l BlockLocator) Equals(other BlockLocator) bool {
	return l.chunk == other.chunk && l.blockIndex == other.blockIndex
}
