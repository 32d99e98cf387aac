package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/gorillastore/internal/models"
)

// rawBytesPerSample is the uncompressed footprint of one sample: 8 bytes
// timestamp plus 8 bytes value.
const rawBytesPerSample = 16

// Delete tombstones a series
// DELETE /v1/series/:key
func (h *Handler) Delete(c *fiber.Ctx) error {
	key := seriesKey(c)
	if key == "" {
		return badRequest(c, "series key is required")
	}

	deleted := h.store.Delete(key)
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "series not found",
			},
		})
	}

	return c.JSON(models.DeleteResponse{Deleted: true})
}

// SeriesStats reports per-series storage statistics
// GET /v1/series/:key/stats
func (h *Handler) SeriesStats(c *fiber.Ctx) error {
	key := seriesKey(c)
	if key == "" {
		return badRequest(c, "series key is required")
	}

	points := h.store.PointCount(key)
	compressed := h.store.CompressedBytes(key)
	raw := points * rawBytesPerSample

	resp := models.SeriesStatsResponse{
		Key:             key,
		Points:          points,
		CompressedBytes: compressed,
		RawBytes:        raw,
	}
	if compressed > 0 {
		resp.CompressionRatio = float64(raw) / float64(compressed)
	}
	if points > 0 {
		resp.BytesPerSample = float64(compressed) / float64(points)
	}

	return c.JSON(resp)
}

// Stats reports store-wide statistics
// GET /v1/stats
func (h *Handler) Stats(c *fiber.Ctx) error {
	return c.JSON(models.StatsResponse{
		Series: h.store.SeriesCount(),
		Points: h.store.CountPoints(),
	})
}
