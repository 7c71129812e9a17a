package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "foodshare/internal/log"
	"foodshare/internal/services"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if cookTok := c.Cookies("csrf_"); cookTok != "" {
		// Fallback if middleware locals weren't populated
		data["CSRFToken"] = cookTok
	}
	return c.Render(tmpl, data)
}

// fail maps a ledger error to a status code and a friendly page, logging the
// underlying cause. Internals never reach the response body.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		applog.Info(c, action+".notfound", nil)
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "That listing no longer exists"})
	case errors.Is(err, services.ErrForbidden):
		applog.Security(c, action+".forbidden", nil)
		return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "You can't do that"})
	case errors.Is(err, services.ErrInvalidState):
		applog.Info(c, action+".conflict", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusConflict).Render("notfound", fiber.Map{"Message": "That listing was just changed by someone else. Refresh and try again."})
	case errors.Is(err, services.ErrInvalidInput):
		applog.Security(c, action+".badinput", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Please check your input and try again"})
	default:
		applog.Error(c, action+".error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
}
