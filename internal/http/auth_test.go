package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	html "github.com/gofiber/template/html/v2"
	"golang.org/x/crypto/bcrypt"

	"foodshare/internal/http/handlers"
	"foodshare/internal/repos"
	"foodshare/internal/services"
)

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func postForm(app *fiber.App, path, body, csrfTok, sid string) (*http.Response, error) {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if csrfTok != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return app.Test(req)
}

func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	// fetch csrf token
	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	// bad password -> 401
	respBad, err := postForm(app, "/login", "csrf="+csrfTok+"&email=maya@foodshare.test&password=wrongpass!", csrfTok, "")
	if err != nil {
		t.Fatal(err)
	}
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}

	// good password -> redirect to dashboard
	respGood, err := postForm(app, "/login", "csrf="+csrfTok+"&email=maya@foodshare.test&password=Passw0rd!", csrfTok, "")
	if err != nil {
		t.Fatal(err)
	}
	if respGood.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", respGood.StatusCode)
	}

	// throttle after 2 attempts (we already did 2; a third should 429)
	respThird, err := postForm(app, "/login", "csrf="+csrfTok+"&email=maya@foodshare.test&password=wrongpass!", csrfTok, "")
	if err != nil {
		t.Fatal(err)
	}
	if respThird.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", respThird.StatusCode)
	}
}

func TestRegisterCreatesAccount(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)

	resp, _ := app.Test(httptest.NewRequest("GET", "/register", nil))
	csrfTok := extractCookie(resp, "csrf_")

	// invalid role -> 400
	respBad, err := postForm(app, "/register",
		"csrf="+csrfTok+"&email=new@foodshare.test&name=Newbie&password=Passw0rd!&role=wizard", csrfTok, "")
	if err != nil {
		t.Fatal(err)
	}
	if respBad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad role, got %d", respBad.StatusCode)
	}

	// donor registration -> redirect, user persisted with DONOR role
	respOK, err := postForm(app, "/register",
		"csrf="+csrfTok+"&email=new@foodshare.test&name=Newbie&password=Passw0rd!&role=donor", csrfTok, "")
	if err != nil {
		t.Fatal(err)
	}
	if respOK.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", respOK.StatusCode)
	}
	u, err := userRepo.ByEmail("new@foodshare.test")
	if err != nil {
		t.Fatalf("registered user missing: %v", err)
	}
	if u.Role != "DONOR" {
		t.Fatalf("want DONOR role, got %s", u.Role)
	}

	// duplicate email -> 400
	respDup, err := postForm(app, "/register",
		"csrf="+csrfTok+"&email=new@foodshare.test&name=Other&password=Passw0rd!&role=recipient", csrfTok, "")
	if err != nil {
		t.Fatal(err)
	}
	if respDup.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", respDup.StatusCode)
	}
}
