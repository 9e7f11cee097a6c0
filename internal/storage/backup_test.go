package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-game/internal/vec"
	_ "github.com/annel0/voxel-game/internal/world/block/implementations"
)

func TestBackupRoundTrip(t *testing.T) {
	saveDir := t.TempDir()
	store, err := NewFileChunkStore(saveDir)
	require.NoError(t, err)

	require.NoError(t, store.SaveChunk(vec.Vec2{X: 0, Y: 0}, testChunkTypes()))
	require.NoError(t, store.SaveChunk(vec.Vec2{X: -1, Y: 4}, testChunkTypes()))
	_, err = LoadOrCreateManifest(saveDir, 42)
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "world.tar.gz")
	require.NoError(t, CreateBackup(saveDir, archive))

	assert.NoError(t, VerifyBackup(archive), "Свежий архив должен проходить проверку сумм")
}

func TestVerifyBackupDetectsTampering(t *testing.T) {
	saveDir := t.TempDir()
	store, err := NewFileChunkStore(saveDir)
	require.NoError(t, err)
	require.NoError(t, store.SaveChunk(vec.Vec2{X: 0, Y: 0}, testChunkTypes()))

	archive := filepath.Join(t.TempDir(), "world.tar.gz")
	require.NoError(t, CreateBackup(saveDir, archive))

	// Битый gzip-поток должен обнаруживаться
	data, err := os.ReadFile(archive)
	require.NoError(t, err)
	data[len(data)/2] ^= 0xFF
	require.NoError(t, os.WriteFile(archive, data, 0644))

	assert.Error(t, VerifyBackup(archive), "Испорченный архив не должен проходить проверку")
}
