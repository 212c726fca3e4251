package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dailydiet/internal/middleware"
	"dailydiet/internal/repositories"
	"dailydiet/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(secret string) *fiber.App {
	sessions := services.NewSessionService(repositories.NewMockUserRepository(), secret, 7*24*time.Hour)
	app := fiber.New()
	app.Get("/", middleware.Session(sessions, slog.New(slog.NewTextHandler(io.Discard, nil))), func(c *fiber.Ctx) error {
		return c.SendString(middleware.SessionID(c))
	})
	return app
}

func sessionCookies(resp *http.Response) []*http.Cookie {
	var cookies []*http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			cookies = append(cookies, c)
		}
	}
	return cookies
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	return nil
}

func TestSession_IssuesCookie(t *testing.T) {
	resp, err := newApp("").Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, cookie.Value, string(body))
	_, err = uuid.Parse(string(body))
	assert.NoError(t, err)
}

func TestSession_KeepsExistingCookie(t *testing.T) {
	token := uuid.New().String()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})

	resp, err := newApp("").Test(req)
	require.NoError(t, err)

	assert.Nil(t, sessionCookie(resp))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, token, string(body))
}

func TestSession_ReplacesInvalidCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "garbage"})

	resp, err := newApp("secret").Test(req)
	require.NoError(t, err)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.NotEqual(t, "garbage", cookie.Value)

	// The signed value round-trips to the same token.
	body, _ := io.ReadAll(resp.Body)
	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: cookie.Value})
	resp, err = newApp("secret").Test(req)
	require.NoError(t, err)
	again, _ := io.ReadAll(resp.Body)
	assert.Equal(t, string(body), string(again))
}

func TestSession_NoCookieOnFailedRequest(t *testing.T) {
	sessions := services.NewSessionService(repositories.NewMockUserRepository(), "", time.Hour)
	app := fiber.New()
	app.Post("/", middleware.Session(sessions, slog.New(slog.NewTextHandler(io.Discard, nil))), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed"})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp))
}

func TestSession_HandlerReplacesToken(t *testing.T) {
	sessions := services.NewSessionService(repositories.NewMockUserRepository(), "", time.Hour)
	replacement := uuid.New().String()
	app := fiber.New()
	app.Post("/", middleware.Session(sessions, slog.New(slog.NewTextHandler(io.Discard, nil))), func(c *fiber.Ctx) error {
		if err := middleware.WriteSessionCookie(c, sessions, replacement); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)

	cookies := sessionCookies(resp)
	require.Len(t, cookies, 1)
	assert.Equal(t, replacement, cookies[0].Value)
}
