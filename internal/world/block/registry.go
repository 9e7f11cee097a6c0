package block

// TypeIndex представляет индекс типа блока.
// Хранится в каждом вокселе и в файлах чанков, поэтому обязан
// умещаться в один байт.
type TypeIndex uint8

// Константы индексов базовых типов
const (
	AirTypeIndex   TypeIndex = iota // 0
	GrassTypeIndex                  // 1
	DirtTypeIndex                   // 2
	StoneTypeIndex                  // 3
	WaterTypeIndex                  // 4

	// Светящиеся блоки (начиная с 100)
	GlowstoneTypeIndex TypeIndex = 100

	// Служебный тип для блоков за границей мира
	MissingTypeIndex TypeIndex = 255
)

var (
	registryByIndex = make(map[TypeIndex]*Type)
	registryByName  = make(map[string]*Type)
)

// Register добавляет тип блока в регистр.
// Вызывается из init() файлов-описаний; после старта регистр только читается.
func Register(t *Type) {
	registryByIndex[t.Index] = t
	registryByName[t.Name] = t
}

// GetByIndex возвращает тип блока по индексу
func GetByIndex(index TypeIndex) (*Type, bool) {
	t, exists := registryByIndex[index]
	return t, exists
}

// GetByName возвращает тип блока по имени
func GetByName(name string) (*Type, bool) {
	t, exists := registryByName[name]
	return t, exists
}

// MustGetByName возвращает тип блока по имени или паникует.
// Используется для базовых типов, без которых мир не имеет смысла.
func MustGetByName(name string) *Type {
	t, exists := registryByName[name]
	if !exists {
		panic("block: незарегистрированный тип блока: " + name)
	}
	return t
}

// IsValidIndex проверяет, является ли индекс допустимым типом блока
func IsValidIndex(index TypeIndex) bool {
	_, exists := registryByIndex[index]
	return exists
}
