package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"foodshare/internal/domain"
	"foodshare/internal/log"
	"foodshare/internal/services"
	"foodshare/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}
	if !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	_, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email, okEmail := validate.Email(c.FormValue("email"))
	name, okName := validate.Name(c.FormValue("name"))
	pass := c.FormValue("password")
	role := strings.ToUpper(strings.TrimSpace(c.FormValue("role")))

	show := func(msg string) error {
		return c.Status(400).Render("register", fiber.Map{"Err": msg, "CSRFToken": c.Cookies("csrf_")})
	}
	if !okEmail {
		return show("Enter a valid email address")
	}
	if !okName {
		return show("Enter a display name (max 60 characters)")
	}
	if !validate.Password(pass) {
		return show("Password needs 8-20 characters with upper, lower, digit and symbol")
	}
	if role != domain.RoleDonor && role != domain.RoleRecipient {
		return show("Pick a role: donor or recipient")
	}

	if _, err := h.Auth.Register(sid, email, name, pass, role); err != nil {
		if err == services.ErrEmailTaken {
			return show("That email is already registered")
		}
		log.Error(c, "auth.register.fail", err, map[string]any{"email": email})
		return show("Could not create the account. Please try again.")
	}

	log.Audit(c, "auth.register", map[string]any{"email": email, "role": role})
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/login")
}
