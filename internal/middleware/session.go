package middleware

import (
	"log/slog"
	"time"

	"dailydiet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie carrying the session token.
const CookieName = "sessionId"

const (
	sessionLocal       = "session_id"
	cookieWrittenLocal = "session_cookie_written"
)

// Session resolves the caller's session token, issuing a new one when none
// (or an invalid one) was sent. A newly issued token is only set as a cookie
// once the handler has succeeded.
func Session(sessions *services.SessionService, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, isNew := sessions.ResolveOrIssue(c.Cookies(CookieName))
		c.Locals(sessionLocal, token)

		if err := c.Next(); err != nil {
			return err
		}
		if !isNew || c.Locals(cookieWrittenLocal) != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}
		if err := WriteSessionCookie(c, sessions, token); err != nil {
			logger.Error("failed to issue session cookie", "path", c.Path(), "error", err)
			return err
		}
		return nil
	}
}

// SessionID returns the token stored by Session.
func SessionID(c *fiber.Ctx) string {
	token, _ := c.Locals(sessionLocal).(string)
	return token
}

// WriteSessionCookie sets the session cookie to token and makes it the
// request's current session.
func WriteSessionCookie(c *fiber.Ctx, sessions *services.SessionService, token string) error {
	value, err := sessions.CookieValue(token)
	if err != nil {
		return err
	}
	maxAge := sessions.MaxAge()
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Expires:  time.Now().Add(maxAge),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals(sessionLocal, token)
	c.Locals(cookieWrittenLocal, true)
	return nil
}
