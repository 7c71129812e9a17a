package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "foodshare/internal/log"
	"foodshare/internal/services"
	"foodshare/internal/validate"
)

type ReviewHandler struct {
	Ledger *services.LedgerService
}

// Submit records a 1..5 rating and comment for a picked-up listing.
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "That listing no longer exists"})
	}
	rating, ok := validate.Rating(c.FormValue("rating"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "rating"})
		return c.Status(400).Render("notfound", fiber.Map{"Message": "Rating must be between 1 and 5"})
	}
	comment := validate.FreeText(c.FormValue("reviewComment"), 500)

	if err := h.Ledger.SubmitReview(u, id, rating, comment); err != nil {
		return fail(c, "review.submit", err)
	}
	applog.Audit(c, "review.submit", map[string]any{"listing": id, "rating": rating})
	return c.Redirect("/dashboard")
}

// Skip marks the review as explicitly skipped.
func (h *ReviewHandler) Skip(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "That listing no longer exists"})
	}
	if err := h.Ledger.SkipReview(u, id); err != nil {
		return fail(c, "review.skip", err)
	}
	applog.Audit(c, "review.skip", map[string]any{"listing": id})
	return c.Redirect("/dashboard")
}

// Received shows a donor the reviews left on their listings, newest first.
func (h *ReviewHandler) Received(c *fiber.Ctx) error {
	u := currentUser(c)
	reviews, err := h.Ledger.ListReviews(u)
	if err != nil {
		return fail(c, "review.list", err)
	}
	return render(c, "reviews", fiber.Map{"Reviews": reviews})
}
