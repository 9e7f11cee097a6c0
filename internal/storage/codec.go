package storage

import (
	"errors"
	"fmt"

	"github.com/annel0/voxel-game/internal/world/block"
)

// Формат файла чанка SMCD: 12-байтовый заголовок, за которым идут
// RLE-пары (индекс типа, длина серии). Длина серии не превышает 255,
// сумма длин обязана в точности равняться числу блоков чанка.
//
//	байты 0..3   магия "SMCD"
//	байт  4      версия формата
//	байты 5..7   биты размеров чанка по X, Y, Z
//	байты 8..10  зарезервированы: пишутся нулями, при чтении
//	             не проверяются ради совместимости вперёд
//	байт  11     кодирование полезной нагрузки ('R' — RLE)
const (
	chunkMagic         = "SMCD"
	chunkFormatVersion = 1

	chunkBitsX = 4
	chunkBitsY = 6
	chunkBitsZ = 4

	encodingRLE = 'R'

	headerSize = 12
	maxRun     = 255
)

// ChunkBlockCount — число блоков в сериализуемом чанке
const ChunkBlockCount = 1 << (chunkBitsX + chunkBitsY + chunkBitsZ)

// ErrBadChunkData означает, что запись чанка не прошла проверку.
// Ошибка восстановимая: мир в этом случае генерирует чанк заново.
var ErrBadChunkData = errors.New("storage: непригодные данные чанка")

// EncodeChunkData сериализует блоки чанка в формат SMCD
func EncodeChunkData(types []block.TypeIndex) ([]byte, error) {
	if len(types) != ChunkBlockCount {
		return nil, fmt.Errorf("%w: ожидалось %d блоков, получено %d",
			ErrBadChunkData, ChunkBlockCount, len(types))
	}

	data := make([]byte, headerSize, headerSize+1024)
	copy(data, chunkMagic)
	data[4] = chunkFormatVersion
	data[5] = chunkBitsX
	data[6] = chunkBitsY
	data[7] = chunkBitsZ
	data[11] = encodingRLE

	runType := types[0]
	runLength := 0
	for _, t := range types {
		if t == runType && runLength < maxRun {
			runLength++
			continue
		}
		data = append(data, byte(runType), byte(runLength))
		runType = t
		runLength = 1
	}
	data = append(data, byte(runType), byte(runLength))

	return data, nil
}

// DecodeChunkData разбирает запись формата SMCD и проверяет её
// целостность. Любое расхождение с форматом возвращается как
// ErrBadChunkData.
func DecodeChunkData(data []byte) ([]block.TypeIndex, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: запись короче заголовка", ErrBadChunkData)
	}
	if string(data[:4]) != chunkMagic {
		return nil, fmt.Errorf("%w: неверная магия %q", ErrBadChunkData, data[:4])
	}
	if data[4] != chunkFormatVersion {
		return nil, fmt.Errorf("%w: неподдерживаемая версия %d", ErrBadChunkData, data[4])
	}
	if data[5] != chunkBitsX || data[6] != chunkBitsY || data[7] != chunkBitsZ {
		return nil, fmt.Errorf("%w: размеры чанка %d/%d/%d не совпадают с ожидаемыми",
			ErrBadChunkData, data[5], data[6], data[7])
	}
	if data[11] != encodingRLE {
		return nil, fmt.Errorf("%w: неизвестное кодирование %q", ErrBadChunkData, data[11])
	}

	payload := data[headerSize:]
	if len(payload) == 0 || len(payload)%2 != 0 {
		return nil, fmt.Errorf("%w: некратная длина RLE-пар", ErrBadChunkData)
	}

	types := make([]block.TypeIndex, 0, ChunkBlockCount)
	for i := 0; i < len(payload); i += 2 {
		typeIndex := block.TypeIndex(payload[i])
		runLength := int(payload[i+1])
		if runLength == 0 {
			return nil, fmt.Errorf("%w: серия нулевой длины", ErrBadChunkData)
		}
		if !block.IsValidIndex(typeIndex) {
			return nil, fmt.Errorf("%w: неизвестный тип блока %d", ErrBadChunkData, typeIndex)
		}
		if len(types)+runLength > ChunkBlockCount {
			return nil, fmt.Errorf("%w: сумма серий превышает размер чанка", ErrBadChunkData)
		}
		for j := 0; j < runLength; j++ {
			types = append(types, typeIndex)
		}
	}

	if len(types) != ChunkBlockCount {
		return nil, fmt.Errorf("%w: сумма серий %d вместо %d",
			ErrBadChunkData, len(types), ChunkBlockCount)
	}
	return types, nil
}
