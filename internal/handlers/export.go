package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/snappy"

	"github.com/soltixdb/gorillastore/internal/models"
)

// Export dumps every live sample as snappy-compressed JSON lines. Each line
// is one models.SampleMessage, series in scan order, samples in insertion
// order. Each line has the message shape the queue ingest consumer decodes.
// GET /v1/export
func (h *Handler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	count := 0
	h.store.Scan(func(key string, ts uint64, v float64) {
		_ = enc.Encode(models.SampleMessage{Key: key, Timestamp: ts, Value: v})
		count++
	})

	compressed := snappy.Encode(nil, buf.Bytes())

	h.logger.Info("Export completed",
		"samples", count,
		"raw_bytes", buf.Len(),
		"compressed_bytes", len(compressed))

	c.Set(fiber.HeaderContentType, "application/x-snappy")
	c.Set("X-Sample-Count", strconv.Itoa(count))
	return c.Send(compressed)
}
