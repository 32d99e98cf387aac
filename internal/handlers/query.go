package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/gorillastore/internal/analytics"
	"github.com/soltixdb/gorillastore/internal/models"
)

// parseRange reads the start/end query parameters. A missing start defaults
// to 0 and a missing end to the maximum timestamp.
func parseRange(c *fiber.Ctx) (lo, hi uint64, err error) {
	lo, hi = 0, math.MaxUint64
	if s := c.Query("start"); s != "" {
		if lo, err = strconv.ParseUint(s, 10, 64); err != nil {
			return 0, 0, err
		}
	}
	if s := c.Query("end"); s != "" {
		if hi, err = strconv.ParseUint(s, 10, 64); err != nil {
			return 0, 0, err
		}
	}
	return lo, hi, nil
}

// Query handles range queries over one series
// GET /v1/series/:key/query?start=xxx&end=xxx
func (h *Handler) Query(c *fiber.Ctx) error {
	key := seriesKey(c)
	if key == "" {
		return badRequest(c, "series key is required")
	}

	lo, hi, err := parseRange(c)
	if err != nil {
		return badRequest(c, "start/end must be unsigned integers: "+err.Error())
	}

	samples := h.store.Query(key, lo, hi)
	points := make([]models.Point, len(samples))
	for i, s := range samples {
		points[i] = models.Point{Timestamp: s.TS, Value: s.Value}
	}

	return c.JSON(models.QueryResponse{Key: key, Count: len(points), Points: points})
}

// Correlate scans all series for the strongest Pearson correlations against
// one needle series
// GET /v1/correlate?key=xxx&start=xxx&end=xxx&top=N
func (h *Handler) Correlate(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return badRequest(c, "'key' query parameter is required")
	}

	lo, hi, err := parseRange(c)
	if err != nil {
		return badRequest(c, "start/end must be unsigned integers: "+err.Error())
	}

	top := c.QueryInt("top", 10)
	results := analytics.FindCorrelated(h.store, key, lo, hi, top)
	if results == nil {
		results = []analytics.Correlation{}
	}

	return c.JSON(fiber.Map{
		"key":     key,
		"results": results,
	})
}
