package middleware

import (
	"log"

	"bakeshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "bakery_session"

// SessionRequired is a Fiber middleware guarding protected pages. A
// missing or invalid session redirects to the login page before the
// handler runs, so no protected side effect can happen anonymously.
func SessionRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return c.Redirect("/login")
		}

		userID, username, err := authService.ValidateSession(tokenString)
		if err != nil {
			log.Printf("Session validation failed: %v", err)
			return c.Redirect("/login")
		}

		// Store identity in Fiber context for subsequent handlers
		c.Locals("user_id", userID)
		c.Locals("username", username)

		return c.Next()
	}
}
