package handlers

import (
	"github.com/gofiber/fiber/v2"

	"foodshare/internal/services"
	"foodshare/internal/validate"
)

type AvailabilityHandler struct {
	Ledger *services.LedgerService
}

// Check reports coarse stock for a listing as JSON, for the dashboard's
// availability widget.
func (h *AvailabilityHandler) Check(c *fiber.Ctx) error {
	listingID, ok := validate.ID(c.Query("listingId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing listingId",
		})
	}

	avail, err := h.Ledger.Availability(listingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(avail)
}
