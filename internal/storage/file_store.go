package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world/block"
)

// FileChunkStore хранит каждый чанк отдельным файлом формата SMCD
// в директории сохранения
type FileChunkStore struct {
	dir string
}

// NewFileChunkStore создаёт файловое хранилище чанков в dir
func NewFileChunkStore(dir string) (*FileChunkStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории сохранения: %w", err)
	}
	return &FileChunkStore{dir: dir}, nil
}

func (s *FileChunkStore) chunkPath(coords vec.Vec2) string {
	return filepath.Join(s.dir, fmt.Sprintf("chunk_%d,%d.smcd", coords.X, coords.Y))
}

// LoadChunk читает и проверяет файл чанка
func (s *FileChunkStore) LoadChunk(coords vec.Vec2) ([]block.TypeIndex, error) {
	data, err := os.ReadFile(s.chunkPath(coords))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrChunkNotFound
		}
		return nil, fmt.Errorf("ошибка чтения файла чанка: %w", err)
	}
	return DecodeChunkData(data)
}

// SaveChunk записывает чанк во временный файл и атомарно подменяет
// прежний, чтобы сбой записи не портил существующее сохранение
func (s *FileChunkStore) SaveChunk(coords vec.Vec2, types []block.TypeIndex) error {
	data, err := EncodeChunkData(types)
	if err != nil {
		return err
	}

	path := s.chunkPath(coords)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла чанка: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("ошибка подмены файла чанка: %w", err)
	}
	return nil
}

// Close у файлового хранилища ничего не освобождает
func (s *FileChunkStore) Close() error {
	return nil
}
