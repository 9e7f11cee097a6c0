package world

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики подсистемы мира
var (
	metricActiveChunks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_active_chunks",
		Help: "Количество активных чанков",
	})

	metricChunkActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_chunk_activations_total",
		Help: "Активации чанков по источнику данных",
	}, []string{"source"}) // file | generated

	metricChunkDeactivations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_chunk_deactivations_total",
		Help: "Деактивации чанков",
	})

	metricLightingRecomputes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_lighting_recomputes_total",
		Help: "Пересчёты освещённости отдельных блоков",
	})

	metricLightingQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_lighting_queue_length",
		Help: "Длина очереди пересчёта освещения после тика",
	})

	metricMeshRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_mesh_rebuilds_total",
		Help: "Перестроения мешей чанков",
	})

	metricBlockEdits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_block_edits_total",
		Help: "Изменения блоков игроками",
	}, []string{"action"}) // dig | place
)
