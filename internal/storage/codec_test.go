package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-game/internal/world/block"
	_ "github.com/annel0/voxel-game/internal/world/block/implementations"
)

// testChunkTypes собирает правдоподобное содержимое чанка: камень
// снизу, земля, трава и воздух сверху
func testChunkTypes() []block.TypeIndex {
	types := make([]block.TypeIndex, ChunkBlockCount)
	perLayer := ChunkBlockCount / 64
	for i := range types {
		switch y := i / perLayer; {
		case y < 25:
			types[i] = block.StoneTypeIndex
		case y < 29:
			types[i] = block.DirtTypeIndex
		case y == 29:
			types[i] = block.GrassTypeIndex
		default:
			types[i] = block.AirTypeIndex
		}
	}
	return types
}

func TestCodecRoundTrip(t *testing.T) {
	original := testChunkTypes()

	data, err := EncodeChunkData(original)
	require.NoError(t, err)

	decoded, err := DecodeChunkData(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded, "Содержимое чанка должно пережить сериализацию")
}

func TestCodecLongRunsSplit(t *testing.T) {
	// Однородный чанк: серии длиннее 255 обязаны разбиваться
	types := make([]block.TypeIndex, ChunkBlockCount)
	for i := range types {
		types[i] = block.StoneTypeIndex
	}

	data, err := EncodeChunkData(types)
	require.NoError(t, err)

	payload := data[headerSize:]
	for i := 0; i < len(payload); i += 2 {
		assert.Equal(t, byte(block.StoneTypeIndex), payload[i])
		assert.NotZero(t, payload[i+1], "Серия нулевой длины недопустима")
	}

	decoded, err := DecodeChunkData(data)
	require.NoError(t, err)
	assert.Equal(t, types, decoded)
}

func TestCodecHeader(t *testing.T) {
	data, err := EncodeChunkData(testChunkTypes())
	require.NoError(t, err)

	assert.Equal(t, "SMCD", string(data[:4]))
	assert.Equal(t, byte(1), data[4], "Версия формата")
	assert.Equal(t, byte(4), data[5], "Биты X")
	assert.Equal(t, byte(6), data[6], "Биты Y")
	assert.Equal(t, byte(4), data[7], "Биты Z")
	assert.Equal(t, []byte{0, 0, 0}, data[8:11], "Зарезервированные байты")
	assert.Equal(t, byte('R'), data[11], "Кодирование RLE")
}

func TestCodecEncodeWrongLength(t *testing.T) {
	_, err := EncodeChunkData(make([]block.TypeIndex, 10))
	assert.ErrorIs(t, err, ErrBadChunkData)
}

func TestCodecRejectsCorruptedData(t *testing.T) {
	valid, err := EncodeChunkData(testChunkTypes())
	require.NoError(t, err)

	corrupt := func(mutate func([]byte) []byte) []byte {
		data := append([]byte(nil), valid...)
		return mutate(data)
	}

	cases := map[string][]byte{
		"пустая запись": {},
		"обрезанный заголовок": valid[:8],
		"чужая магия": corrupt(func(d []byte) []byte {
			d[0] = 'X'
			return d
		}),
		"неизвестная версия": corrupt(func(d []byte) []byte {
			d[4] = 99
			return d
		}),
		"чужие размеры чанка": corrupt(func(d []byte) []byte {
			d[6] = 5
			return d
		}),
		"неизвестное кодирование": corrupt(func(d []byte) []byte {
			d[11] = 'Z'
			return d
		}),
		"нечётная нагрузка": corrupt(func(d []byte) []byte {
			return append(d, 0x00)
		}),
		"серия нулевой длины": corrupt(func(d []byte) []byte {
			d[headerSize+1] = 0
			return d
		}),
		"лишняя серия": corrupt(func(d []byte) []byte {
			return append(d, byte(block.StoneTypeIndex), 1)
		}),
		"обрыв нагрузки": valid[:len(valid)-2],
		"незнакомый тип блока": corrupt(func(d []byte) []byte {
			d[headerSize] = 200
			return d
		}),
	}

	for name, data := range cases {
		_, err := DecodeChunkData(data)
		assert.ErrorIs(t, err, ErrBadChunkData, "Случай %q должен отвергаться", name)
	}
}

func TestCodecIgnoresReservedBytes(t *testing.T) {
	original := testChunkTypes()
	data, err := EncodeChunkData(original)
	require.NoError(t, err)

	// Записи будущих версий могут занять резерв; чтение не ломается
	data[8] = 7
	data[9] = 1
	data[10] = 255

	decoded, err := DecodeChunkData(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
