package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/annel0/voxel-game/internal/logging"
	"github.com/annel0/voxel-game/internal/middleware"
	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world"
	"github.com/annel0/voxel-game/internal/world/block"
)

// RestServer — отладочный REST API мира: точка наблюдения, запросы
// блоков, трассировка лучей, копание и установка блоков
type RestServer struct {
	router *gin.Engine
	server *http.Server
	world  *world.World
}

// NewRestServer создаёт REST сервер поверх мира
func NewRestServer(w *world.World, port int) *RestServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("rest_api")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	rs := &RestServer{
		router: router,
		world:  w,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		},
	}
	rs.setupRoutes()
	return rs
}

func (rs *RestServer) setupRoutes() {
	rs.router.GET("/healthz", rs.handleHealth)

	api := rs.router.Group("/api")
	{
		api.GET("/stats", rs.handleStats)
		api.GET("/block", rs.handleBlockInfo)
		api.POST("/viewpoint", rs.handleSetViewpoint)
		api.POST("/raycast", rs.handleRaycast)
		api.POST("/dig", rs.handleDig)
		api.POST("/place", rs.handlePlace)
		api.GET("/debug-ray", rs.handleDebugRayResult)
		api.POST("/debug-ray", rs.handleSetDebugRay)
		api.DELETE("/debug-ray", rs.handleClearDebugRay)
	}
}

// Start запускает сервер; блокируется до остановки
func (rs *RestServer) Start() error {
	logging.Info("REST API запущен на %s", rs.server.Addr)
	err := rs.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop останавливает сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestServer) handleStats(c *gin.Context) {
	stats := gin.H{
		"seed":          rs.world.Seed(),
		"active_chunks": rs.world.ActiveChunkCount(),
		"viewpoint":     rs.world.Viewpoint(),
		"goroutines":    runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats["memory_used_percent"] = vm.UsedPercent
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats["cpu_percent"] = percents[0]
	}

	c.JSON(http.StatusOK, stats)
}

func (rs *RestServer) handleBlockInfo(c *gin.Context) {
	pos, err := parseBlockPosition(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, ok := rs.world.BlockInfoAtPosition(pos)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "блок вне активного мира"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"type_index":    info.TypeIndex,
		"type_name":     info.TypeName,
		"indoor_light":  info.IndoorLight,
		"outdoor_light": info.OutdoorLight,
		"is_sky":        info.IsSky,
	})
}

func parseBlockPosition(c *gin.Context) (vec.Vec3, error) {
	x, errX := strconv.Atoi(c.Query("x"))
	y, errY := strconv.Atoi(c.Query("y"))
	z, errZ := strconv.Atoi(c.Query("z"))
	if errX != nil || errY != nil || errZ != nil {
		return vec.Vec3{}, fmt.Errorf("ожидаются целочисленные параметры x, y, z")
	}
	return vec.Vec3{X: x, Y: y, Z: z}, nil
}

type viewpointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (rs *RestServer) handleSetViewpoint(c *gin.Context) {
	var req viewpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rs.world.SetViewpoint(vec.Vec3Float{X: req.X, Y: req.Y, Z: req.Z})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type rayRequest struct {
	Start       viewpointRequest `json:"start"`
	Direction   viewpointRequest `json:"direction"`
	MaxDistance float64          `json:"max_distance"`
	BlockType   string           `json:"block_type,omitempty"`
}

func (req *rayRequest) startVec() vec.Vec3Float {
	return vec.Vec3Float{X: req.Start.X, Y: req.Start.Y, Z: req.Start.Z}
}

func (req *rayRequest) directionVec() vec.Vec3Float {
	return vec.Vec3Float{X: req.Direction.X, Y: req.Direction.Y, Z: req.Direction.Z}
}

func (rs *RestServer) handleRaycast(c *gin.Context) {
	var req rayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := rs.world.Raycast(req.startVec(), req.directionVec(), req.MaxDistance)
	response := gin.H{
		"hit":           result.Hit,
		"fraction":      result.Fraction,
		"impact_point":  result.ImpactPoint,
		"impact_normal": result.ImpactNormal,
	}
	// У попадания в край активного мира локатор недействителен
	if result.Hit && result.BlockLocator.IsValid() {
		locator := result.BlockLocator
		response["block_position"] = locator.Chunk().WorldPositionForBlockIndex(locator.BlockIndex())
	}
	c.JSON(http.StatusOK, response)
}

func (rs *RestServer) handleSetDebugRay(c *gin.Context) {
	var req rayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rs.world.SetDebugRay(req.startVec(), req.directionVec(), req.MaxDistance)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestServer) handleClearDebugRay(c *gin.Context) {
	rs.world.ClearDebugRay()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestServer) handleDebugRayResult(c *gin.Context) {
	result, set := rs.world.DebugRayResult()
	if !set {
		c.JSON(http.StatusNotFound, gin.H{"error": "отладочный луч не задан"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hit":           result.Hit,
		"fraction":      result.Fraction,
		"impact_point":  result.ImpactPoint,
		"impact_normal": result.ImpactNormal,
	})
}

func (rs *RestServer) handleDig(c *gin.Context) {
	var req rayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dug := rs.world.DigAlongRay(req.startVec(), req.directionVec(), req.MaxDistance)
	c.JSON(http.StatusOK, gin.H{"dug": dug})
}

func (rs *RestServer) handlePlace(c *gin.Context) {
	var req rayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blockType, exists := block.GetByName(req.BlockType)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестный тип блока: " + req.BlockType})
		return
	}

	placed := rs.world.PlaceAlongRay(req.startVec(), req.directionVec(), req.MaxDistance, blockType.Index)
	c.JSON(http.StatusOK, gin.H{"placed": placed})
}
