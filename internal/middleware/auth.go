package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	log "github.com/sirupsen/logrus"

	"channelmaster/internal/auth"
)

// AuthMiddleware redirects to the login page unless the session holds a
// completed OTP login, and exposes the operator on c.Locals.
func AuthMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Errorf("Middleware: session load failed (%s): %v", c.Path(), err)
			return c.Redirect("/auth/login")
		}

		email, okEmail := sess.Get(auth.SessionKeyEmail).(string)
		userID, okID := sess.Get(auth.SessionKeyUserID).(uint64)
		if !okEmail || !okID {
			log.Debugf("Middleware: unauthenticated access (%s)", c.Path())
			return c.Redirect("/auth/login")
		}
		userName, _ := sess.Get(auth.SessionKeyUserName).(string)

		c.Locals("user_email", email)
		c.Locals("user_id", userID)
		c.Locals("user_name", userName)

		return c.Next()
	}
}
