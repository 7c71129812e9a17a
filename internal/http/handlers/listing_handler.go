package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "foodshare/internal/log"
	"foodshare/internal/services"
	"foodshare/internal/validate"
)

type ListingHandler struct {
	Ledger *services.LedgerService
}

// Publish creates a new Available listing from the donor's form.
func (h *ListingHandler) Publish(c *fiber.Ctx) error {
	u := currentUser(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(400).Render("notfound", fiber.Map{"Message": "Listing name is required (max 60 characters)"})
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "quantity"})
		return c.Status(400).Render("notfound", fiber.Map{"Message": "Quantity must be a positive number"})
	}

	in := services.PublishInput{
		Name:        name,
		Description: validate.FreeText(c.FormValue("description"), 500),
		ExpiryDate:  validate.FreeText(c.FormValue("expiryDate"), 50),
		Category:    validate.FreeText(c.FormValue("category"), 50),
		ImageRef:    validate.FreeText(c.FormValue("imageRef"), 200),
		Quantity:    qty,
	}
	l, err := h.Ledger.Publish(u, in)
	if err != nil {
		return fail(c, "listing.publish", err)
	}

	applog.Audit(c, "listing.publish", map[string]any{"listing": l.ID, "qty": l.Quantity})
	return c.Redirect("/dashboard")
}

// Delete removes one of the donor's listings regardless of status.
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "That listing no longer exists"})
	}
	if err := h.Ledger.Delete(u, id); err != nil {
		return fail(c, "listing.delete", err)
	}
	applog.Audit(c, "listing.delete", map[string]any{"listing": id})
	return c.Redirect("/dashboard")
}

// Pickup confirms handover of a reserved listing.
func (h *ListingHandler) Pickup(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "That listing no longer exists"})
	}
	if err := h.Ledger.MarkPickedUp(u, id); err != nil {
		return fail(c, "listing.pickup", err)
	}
	applog.Audit(c, "listing.pickup", map[string]any{"listing": id})
	return c.Redirect("/dashboard")
}
