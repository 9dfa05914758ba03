package handlers

import (
	"errors"
	"log"
	"time"

	"bakeshop/internal/middleware"
	"bakeshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Get("/register", h.ShowRegisterForm)
	router.Post("/register", h.HandleRegister)
	router.Get("/login", h.ShowLoginForm)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
}

// RegisterForm represents the registration form fields.
type RegisterForm struct {
	Username string `form:"username" validate:"required,min=3,max=100"`
	Password string `form:"password" validate:"required,min=6"`
}

// LoginForm represents the login form fields.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// HandleIndex sends authenticated browsers to the order list and
// everyone else to the login form.
func (h *AuthHandler) HandleIndex(c *fiber.Ctx) error {
	if tokenString := c.Cookies(middleware.SessionCookie); tokenString != "" {
		if _, _, err := h.authService.ValidateSession(tokenString); err == nil {
			return c.Redirect("/orders")
		}
	}
	return c.Redirect("/login")
}

// ShowRegisterForm renders the registration form.
func (h *AuthHandler) ShowRegisterForm(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{})
}

// HandleRegister creates a new user and redirects to the login form.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var form RegisterForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing register form: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Error": "Invalid form submission",
		})
	}

	if err := h.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Error": "Username must be 3-100 characters and password at least 6",
		})
	}

	if _, err := h.authService.Register(form.Username, form.Password); err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			return c.Status(fiber.StatusConflict).Render("register", fiber.Map{
				"Error": "Username already taken",
			})
		}
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not register user")
	}

	return c.Redirect("/login", fiber.StatusSeeOther)
}

// ShowLoginForm renders the login form.
func (h *AuthHandler) ShowLoginForm(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{})
}

// HandleLogin verifies credentials, sets the session cookie and
// redirects to the order list.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var form LoginForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing login form: %v", err)
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{
			"Error": "Invalid form submission",
		})
	}

	if err := h.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{
			"Error": "Username and password are required",
		})
	}

	token, err := h.authService.Login(form.Username, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Same message for unknown user and wrong password.
			return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
				"Error": "Invalid username or password",
			})
		}
		log.Printf("Error during login for user %s: %v", form.Username, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not log in")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/orders", fiber.StatusSeeOther)
}

// HandleLogout clears the session cookie and redirects to the login form.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/login")
}
