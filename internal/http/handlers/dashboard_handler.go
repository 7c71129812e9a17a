package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "foodshare/internal/log"
	"foodshare/internal/services"
	"foodshare/internal/validate"
)

type DashboardHandler struct {
	Ledger *services.LedgerService
	Saved  *services.SavedService
}

// View renders the role-appropriate dashboard. Donors see what they published
// (with reservation state and received reviews); recipients see available
// listings filtered by ?search=, plus their own reservations and history.
func (h *DashboardHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Redirect("/login")
	}

	if u.IsDonor() {
		mine, err := h.Ledger.ListPublished(u)
		if err != nil {
			applog.Error(c, "dashboard.donor.fail", err, nil)
			return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your listings"})
		}
		return render(c, "dashboard_donor", fiber.Map{"Listings": mine})
	}

	search := strings.TrimSpace(c.Query("search"))
	if search != "" {
		q, ok := validate.Q(search)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "search"})
			search = ""
		} else {
			search = q
		}
	}

	available, err := h.Ledger.ListAvailable(search)
	if err != nil {
		applog.Error(c, "dashboard.available.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings"})
	}
	reservations, err := h.Ledger.ListMine(u)
	if err != nil {
		applog.Error(c, "dashboard.reservations.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your reservations"})
	}
	saved, err := h.Saved.List(u)
	if err != nil {
		applog.Error(c, "dashboard.saved.fail", err, nil)
		saved = nil
	}

	return render(c, "dashboard_recipient", fiber.Map{
		"Listings":     available,
		"Reservations": reservations,
		"Saved":        saved,
		"SearchQuery":  search,
	})
}
