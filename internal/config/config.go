package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.

type Config struct {
	World      WorldConfig      `yaml:"world"`
	Generation GenerationConfig `yaml:"generation"`
	Server     ServerConfig     `yaml:"server"`
}

// WorldConfig параметры активного мира
type WorldConfig struct {
	Seed               int64   `yaml:"seed"`
	SaveDir            string  `yaml:"save_dir"`
	Storage            string  `yaml:"storage"` // "file" или "badger"
	ActivationRange    float64 `yaml:"activation_range"`
	DeactivationOffset float64 `yaml:"deactivation_offset"`
	TickRate           int     `yaml:"tick_rate"`
}

// GenerationConfig параметры генерации ландшафта
type GenerationConfig struct {
	BaseElevation int `yaml:"base_elevation"`
	MaxDeviation  int `yaml:"max_deviation"`
	SeaLevel      int `yaml:"sea_level"`
}

// ServerConfig порты служебных интерфейсов
type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// Значения по умолчанию. Константы генерации совпадают с форматом
// сохранений: чанк, записанный с одними значениями, корректно читается
// при любых других, но рельеф на стыке со старыми чанками разойдётся.
const (
	DefaultSeed               = 0
	DefaultSaveDir            = "saves"
	DefaultStorage            = "file"
	DefaultActivationRange    = 100.0
	DefaultDeactivationOffset = 16.0
	DefaultTickRate           = 60
	DefaultBaseElevation      = 30
	DefaultMaxDeviation       = 10
	DefaultSeaLevel           = 20
)

// GetSeed возвращает сид мира с поддержкой fallback значений
func (w *WorldConfig) GetSeed() int64 {
	if w.Seed != 0 {
		return w.Seed
	}
	if envVal := os.Getenv("GAME_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return DefaultSeed
}

// GetSaveDir возвращает директорию сохранений с поддержкой fallback значений
func (w *WorldConfig) GetSaveDir() string {
	if w.SaveDir != "" {
		return w.SaveDir
	}
	if envVal := os.Getenv("GAME_SAVE_DIR"); envVal != "" {
		return envVal
	}
	return DefaultSaveDir
}

// GetStorage возвращает тип хранилища чанков
func (w *WorldConfig) GetStorage() string {
	if w.Storage != "" {
		return w.Storage
	}
	if envVal := os.Getenv("GAME_STORAGE"); envVal != "" {
		return envVal
	}
	return DefaultStorage
}

// GetActivationRange возвращает радиус активации чанков в блоках
func (w *WorldConfig) GetActivationRange() float64 {
	if w.ActivationRange > 0 {
		return w.ActivationRange
	}
	return DefaultActivationRange
}

// GetDeactivationOffset возвращает ширину полосы гистерезиса в блоках
func (w *WorldConfig) GetDeactivationOffset() float64 {
	if w.DeactivationOffset > 0 {
		return w.DeactivationOffset
	}
	return DefaultDeactivationOffset
}

// GetTickRate возвращает частоту тиков симуляции
func (w *WorldConfig) GetTickRate() int {
	if w.TickRate > 0 {
		return w.TickRate
	}
	return DefaultTickRate
}

// GetBaseElevation возвращает базовую высоту рельефа
func (g *GenerationConfig) GetBaseElevation() int {
	if g.BaseElevation > 0 {
		return g.BaseElevation
	}
	return DefaultBaseElevation
}

// GetMaxDeviation возвращает максимальное отклонение рельефа от базовой высоты
func (g *GenerationConfig) GetMaxDeviation() int {
	if g.MaxDeviation > 0 {
		return g.MaxDeviation
	}
	return DefaultMaxDeviation
}

// GetSeaLevel возвращает уровень моря
func (g *GenerationConfig) GetSeaLevel() int {
	if g.SeaLevel > 0 {
		return g.SeaLevel
	}
	return DefaultSeaLevel
}

// GetRESTPort возвращает порт REST API с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "GAME_REST_PORT", 8088)
}

// GetMetricsPort возвращает порт Prometheus метрик с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "GAME_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV GAME_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
