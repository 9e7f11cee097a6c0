package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-game/internal/vec"
	"github.com/annel0/voxel-game/internal/world"
	_ "github.com/annel0/voxel-game/internal/world/block/implementations"
)

func TestHandleRaycast(t *testing.T) {
	w := world.NewWorld(1, world.GenerationParams{
		BaseElevation: 30,
		MaxDeviation:  10,
		SeaLevel:      20,
	}, nil, 100, 16)
	w.ActivateChunk(vec.Vec2{X: 0, Y: 0})

	rs := NewRestServer(w, 0)

	post := func(t *testing.T, body map[string]interface{}) map[string]interface{} {
		t.Helper()
		payload, err := json.Marshal(body)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/raycast", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		rs.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		return response
	}

	t.Run("попадание в поверхность", func(t *testing.T) {
		response := post(t, map[string]interface{}{
			"start":        map[string]interface{}{"x": 8, "y": 60, "z": 8},
			"direction":    map[string]interface{}{"y": -1},
			"max_distance": 60,
		})
		assert.Equal(t, true, response["hit"])
		assert.Contains(t, response, "block_position")
	})

	t.Run("попадание в край активного мира", func(t *testing.T) {
		// Луч уходит за границу единственного активного чанка и
		// упирается в блок-заглушку: позиции блока в ответе нет
		response := post(t, map[string]interface{}{
			"start":        map[string]interface{}{"x": 8, "y": 50, "z": 8},
			"direction":    map[string]interface{}{"x": 1},
			"max_distance": 40,
		})
		assert.Equal(t, true, response["hit"])
		assert.NotContains(t, response, "block_position",
			"За краем активного мира нет адресуемого блока")
	})
}
