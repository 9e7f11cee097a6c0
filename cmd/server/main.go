package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/voxel-game/internal/api"
	"github.com/annel0/voxel-game/internal/config"
	"github.com/annel0/voxel-game/internal/logging"
	"github.com/annel0/voxel-game/internal/storage"
	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world"

	// Регистрация базовых типов блоков
	_ "github.com/annel0/voxel-game/internal/world/block/implementations"
)

// meshStatsScene — безголовая сцена сервера: меши никуда не рисуются,
// но перестроение отрабатывает так же, как на клиенте
type meshStatsScene struct{}

func (meshStatsScene) SubmitChunkMesh(coords vec.Vec2, mesh *world.Mesh) {
	logging.Trace("Меш чанка (%d, %d): %d вершин, %d индексов",
		coords.X, coords.Y, len(mesh.Vertices), len(mesh.Indices))
}

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	flag.Parse()

	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🌍 Запуск сервера воксельного мира...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка чтения конфигурации: %v", err)
		log.Fatalf("❌ Ошибка чтения конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	seed := cfg.World.GetSeed()
	saveDir := cfg.World.GetSaveDir()

	manifest, err := storage.LoadOrCreateManifest(saveDir, seed)
	if err != nil {
		logging.Error("❌ Ошибка паспорта мира: %v", err)
		log.Fatalf("❌ Ошибка паспорта мира: %v", err)
	}
	logging.Info("📜 Мир %s, сид %d, создан %s",
		manifest.WorldID, manifest.Seed, manifest.CreatedAt.Format(time.RFC3339))

	var store storage.ChunkStore
	switch cfg.World.GetStorage() {
	case "badger":
		store, err = storage.NewBadgerChunkStore(saveDir + "/badger")
	default:
		store, err = storage.NewFileChunkStore(saveDir)
	}
	if err != nil {
		logging.Error("❌ Ошибка открытия хранилища чанков: %v", err)
		log.Fatalf("❌ Ошибка открытия хранилища чанков: %v", err)
	}
	defer store.Close()

	w := world.NewWorld(seed, world.GenerationParams{
		BaseElevation: cfg.Generation.GetBaseElevation(),
		MaxDeviation:  cfg.Generation.GetMaxDeviation(),
		SeaLevel:      cfg.Generation.GetSeaLevel(),
	}, store, cfg.World.GetActivationRange(), cfg.World.GetDeactivationOffset())

	restServer := api.NewRestServer(w, cfg.Server.GetRESTPort())
	go func() {
		if err := restServer.Start(); err != nil {
			logging.Error("❌ REST API остановлен с ошибкой: %v", err)
		}
	}()

	// Отдельный порт метрик для Prometheus
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logging.Info("📊 Prometheus метрики на %s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.Warn("Сервер метрик остановлен: %v", err)
		}
	}()

	tickRate := cfg.World.GetTickRate()
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()
	logging.Info("⏱ Симуляция запущена: %d тиков в секунду", tickRate)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	scene := meshStatsScene{}

loop:
	for {
		select {
		case <-ticker.C:
			w.Update(w.Viewpoint())
			w.Render(scene)
		case sig := <-sigCh:
			logging.Info("Получен сигнал %v, остановка...", sig)
			break loop
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := restServer.Stop(ctx); err != nil {
		logging.Warn("REST API не остановился вовремя: %v", err)
	}

	// Все изменённые чанки уходят на диск до закрытия хранилища
	w.DeactivateAll()
	logging.Info("✅ Мир сохранён, сервер остановлен")
}
