package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/gorillastore/internal/logging"
	"github.com/soltixdb/gorillastore/internal/models"
	"github.com/soltixdb/gorillastore/internal/router"
	"github.com/soltixdb/gorillastore/internal/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *storage.Store) {
	t.Helper()
	store, err := storage.NewStore(7200, 4)
	require.NoError(t, err)

	app := fiber.New()
	router.Setup(app, logging.NewDevelopment(), store)
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestWrite_Single(t *testing.T) {
	app, store := newTestApp(t)

	resp := doJSON(t, app, "POST", "/v1/series/cpu.usage/points",
		models.WriteRequest{Timestamp: 1000, Value: 45.2})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	got := store.Query("cpu.usage", 0, 2000)
	require.Len(t, got, 1)
	assert.Equal(t, storage.Sample{TS: 1000, Value: 45.2}, got[0])
}

func TestWrite_OutOfOrder(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/v1/series/k/points",
		models.WriteRequest{Timestamp: 100, Value: 1.0})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/v1/series/k/points",
		models.WriteRequest{Timestamp: 99, Value: 2.0})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var errResp models.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "OUT_OF_ORDER", errResp.Error.Code)
}

func TestWrite_InvalidBody(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/v1/series/k/points", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWriteBatch(t *testing.T) {
	app, store := newTestApp(t)

	points := make([]models.WriteRequest, 10)
	for i := range points {
		points[i] = models.WriteRequest{Timestamp: uint64(i * 60), Value: float64(i)}
	}
	// One out-of-order point in the middle is skipped, the rest land.
	points[5].Timestamp = 1

	resp := doJSON(t, app, "POST", "/v1/series/k/points/batch",
		models.BatchWriteRequest{Points: points})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.WriteResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, 9, out.Written)
	assert.Equal(t, 1, out.Rejected)

	assert.Equal(t, uint64(9), store.PointCount("k"))
}

func TestWriteBatch_Empty(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/v1/series/k/points/batch",
		models.BatchWriteRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWrite_TombstonedSeries(t *testing.T) {
	app, store := newTestApp(t)

	require.NoError(t, store.Insert("k", 100, 1.0))
	require.True(t, store.Delete("k"))

	resp := doJSON(t, app, "POST", "/v1/series/k/points",
		models.WriteRequest{Timestamp: 200, Value: 2.0})
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)

	var errResp models.ErrorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "TOMBSTONED", errResp.Error.Code)
}

func TestWrite_EscapedKey(t *testing.T) {
	app, store := newTestApp(t)

	resp := doJSON(t, app, "POST", "/v1/series/server1%20cpu/points",
		models.WriteRequest{Timestamp: 100, Value: 1.0})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Equal(t, uint64(1), store.PointCount("server1 cpu"))
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var health models.HealthResponse
	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
}

func TestNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWrite_ManySeries(t *testing.T) {
	app, store := newTestApp(t)

	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("/v1/series/host%02d.cpu/points", i)
		resp := doJSON(t, app, "POST", path, models.WriteRequest{Timestamp: 100, Value: float64(i)})
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
	assert.Equal(t, 20, store.SeriesCount())
}
