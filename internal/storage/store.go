package storage

import (
	"errors"

	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world/block"
)

// ErrChunkNotFound возвращается, когда у хранилища нет записи чанка
var ErrChunkNotFound = errors.New("storage: чанк не найден")

// ChunkStore — хранилище содержимого чанков. Хранится только
// геометрия (индексы типов блоков): освещение пересчитывается при
// активации и на диск не попадает.
type ChunkStore interface {
	// LoadChunk читает блоки чанка. Возвращает ErrChunkNotFound,
	// если чанк ещё не сохранялся; любая другая ошибка означает
	// непригодную запись.
	LoadChunk(coords vec.Vec2) ([]block.TypeIndex, error)

	// SaveChunk записывает блоки чанка
	SaveChunk(coords vec.Vec2, types []block.TypeIndex) error

	// Close освобождает ресурсы хранилища
	Close() error
}
