package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "foodshare/internal/log"
	"foodshare/internal/services"
	"foodshare/internal/validate"
)

type ReservationHandler struct {
	Ledger *services.LedgerService
}

// Reserve claims reserveQty units of a listing for the logged-in user. Asking
// for everything (or more) takes the listing whole; asking for less splits a
// fragment off for this user.
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "That listing no longer exists"})
	}
	qty, ok := validate.Qty(c.FormValue("reserveQty"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "reserveQty"})
		return c.Status(400).Render("notfound", fiber.Map{"Message": "Enter how many you want as a positive number"})
	}

	l, err := h.Ledger.Reserve(u, id, qty)
	if err != nil {
		return fail(c, "reserve", err)
	}

	applog.Audit(c, "reserve", map[string]any{"listing": l.ID, "qty": l.Quantity, "split": l.ParentID.Valid})
	return c.Redirect("/dashboard")
}

// Cancel undoes the user's reservation (merge-back or self-restock), or
// removes a picked-up listing from their history.
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "That listing no longer exists"})
	}
	if err := h.Ledger.Cancel(u, id); err != nil {
		return fail(c, "cancel", err)
	}
	applog.Audit(c, "cancel", map[string]any{"listing": id})
	return c.Redirect("/dashboard")
}
