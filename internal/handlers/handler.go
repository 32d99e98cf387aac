// Package handlers exposes the series store over HTTP. Handlers translate
// between the JSON API surface and the storage core; they hold no state of
// their own beyond the store and logger.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/gorillastore/internal/logging"
	"github.com/soltixdb/gorillastore/internal/models"
	"github.com/soltixdb/gorillastore/internal/storage"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger *logging.Logger
	store  *storage.Store
}

// New creates a new handler instance
func New(logger *logging.Logger, store *storage.Store) *Handler {
	return &Handler{
		logger: logger,
		store:  store,
	}
}

// writeError maps a storage error to its API status and code. OutOfOrder
// and Tombstoned are caller errors returned straight through, not logged.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrOutOfOrder):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "OUT_OF_ORDER",
				Message: "sample timestamp is older than the last write to this series",
			},
		})
	case errors.Is(err, storage.ErrTombstoned):
		return c.Status(fiber.StatusGone).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "TOMBSTONED",
				Message: "series has been deleted",
			},
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL",
				Message: err.Error(),
			},
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: msg,
		},
	})
}
