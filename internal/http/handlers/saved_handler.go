package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "foodshare/internal/log"
	"foodshare/internal/services"
	"foodshare/internal/validate"
)

type SavedHandler struct {
	Saved *services.SavedService
}

func (h *SavedHandler) Save(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Saved.Save(u, id); err != nil {
		applog.Error(c, "saved.add.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not save listing")
	}
	applog.Audit(c, "saved.add", map[string]any{"listing": id})
	back := c.Get("Referer")
	if back == "" {
		back = "/dashboard"
	}
	return c.Redirect(back)
}

func (h *SavedHandler) Unsave(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Saved.Unsave(u, id); err != nil {
		applog.Error(c, "saved.remove.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not remove listing")
	}
	applog.Audit(c, "saved.remove", map[string]any{"listing": id})
	return c.Redirect("/dashboard")
}
