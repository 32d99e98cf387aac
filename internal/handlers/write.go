package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/gorillastore/internal/models"
)

// seriesKey extracts the series key path parameter. Keys are opaque byte
// strings; clients URL-escape them.
func seriesKey(c *fiber.Ctx) string {
	raw := c.Params("key")
	if key, err := url.PathUnescape(raw); err == nil {
		return key
	}
	return raw
}

// Write handles a single data point write
// POST /v1/series/:key/points
func (h *Handler) Write(c *fiber.Ctx) error {
	key := seriesKey(c)
	if key == "" {
		return badRequest(c, "series key is required")
	}

	var body models.WriteRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "failed to parse request body: "+err.Error())
	}

	if err := h.store.Insert(key, body.Timestamp, body.Value); err != nil {
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// WriteBatch handles a batch of data points for one series. Points are
// applied in order; rejected points (out of order, tombstoned) are counted
// and skipped so the rest of the batch still lands.
// POST /v1/series/:key/points/batch
func (h *Handler) WriteBatch(c *fiber.Ctx) error {
	key := seriesKey(c)
	if key == "" {
		return badRequest(c, "series key is required")
	}

	var body models.BatchWriteRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "failed to parse request body: "+err.Error())
	}
	if len(body.Points) == 0 {
		return badRequest(c, "'points' must be a non-empty array")
	}

	written, rejected := 0, 0
	for _, p := range body.Points {
		if err := h.store.Insert(key, p.Timestamp, p.Value); err != nil {
			rejected++
			continue
		}
		written++
	}

	return c.JSON(models.WriteResponse{Written: written, Rejected: rejected})
}
