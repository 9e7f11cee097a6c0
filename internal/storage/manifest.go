package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const manifestFileName = "manifest.yml"

// Manifest — паспорт сохранённого мира. Лежит рядом с чанками и
// позволяет отличить миры друг от друга и от чужих сохранений.
type Manifest struct {
	WorldID   string    `yaml:"world_id"`
	Seed      int64     `yaml:"seed"`
	CreatedAt time.Time `yaml:"created_at"`
}

// LoadOrCreateManifest читает паспорт мира из директории сохранения
// или создаёт новый с указанным сидом
func LoadOrCreateManifest(dir string, seed int64) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)

	data, err := os.ReadFile(path)
	if err == nil {
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("ошибка разбора паспорта мира: %w", err)
		}
		if m.Seed != seed {
			return nil, fmt.Errorf("сохранение создано с сидом %d, а сервер запущен с сидом %d", m.Seed, seed)
		}
		return &m, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка чтения паспорта мира: %w", err)
	}

	m := &Manifest{
		WorldID:   uuid.NewString(),
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории сохранения: %w", err)
	}
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации паспорта мира: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return nil, fmt.Errorf("ошибка записи паспорта мира: %w", err)
	}
	return m, nil
}
