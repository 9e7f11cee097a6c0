package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world/block"
)

// BadgerChunkStore хранит чанки в embedded key-value базе Badger.
// Записи те же, что у файлового хранилища (формат SMCD), ключ —
// "chunk:<x>:<z>". Подходит для миров с большим числом мелких чанков,
// где файловая система начинает захлёбываться.
type BadgerChunkStore struct {
	db *badger.DB
}

// NewBadgerChunkStore открывает базу чанков в директории dir
func NewBadgerChunkStore(dir string) (*BadgerChunkStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы чанков: %w", err)
	}
	return &BadgerChunkStore{db: db}, nil
}

func chunkKey(coords vec.Vec2) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d", coords.X, coords.Y))
}

// LoadChunk читает и проверяет запись чанка
func (s *BadgerChunkStore) LoadChunk(coords vec.Vec2) ([]block.TypeIndex, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coords))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrChunkNotFound
		}
		return nil, fmt.Errorf("ошибка чтения чанка из базы: %w", err)
	}
	return DecodeChunkData(data)
}

// SaveChunk записывает чанк одной транзакцией
func (s *BadgerChunkStore) SaveChunk(coords vec.Vec2, types []block.TypeIndex) error {
	data, err := EncodeChunkData(types)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(coords), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка записи чанка в базу: %w", err)
	}
	return nil
}

// Close закрывает базу
func (s *BadgerChunkStore) Close() error {
	return s.db.Close()
}
