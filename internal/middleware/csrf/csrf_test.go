package csrf_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dracker/dracker/internal/middleware/csrf"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/csrf", csrf.TokenHandler)
	return app
}

func cookieValue(t *testing.T, res *http.Response, name string) string {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestTokenHandlerMintsToken(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(fiber.MethodGet, "/csrf", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	header := res.Header.Get(csrf.TokenName)
	require.NotEmpty(t, header)

	cookie := cookieValue(t, res, csrf.TokenName)
	assert.Equal(t, header, cookie)

	var set *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == csrf.TokenName {
			set = c
		}
	}
	require.NotNil(t, set)
	assert.True(t, set.Secure)
	assert.True(t, set.HttpOnly)
	assert.Equal(t, "/", set.Path)
	assert.Equal(t, http.SameSiteNoneMode, set.SameSite)
	assert.Equal(t, int(csrf.CookieMaxAge.Seconds()), set.MaxAge)
}

func TestTokenHandlerReusesExistingCookie(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(fiber.MethodGet, "/csrf", nil)
	req.AddCookie(&http.Cookie{Name: csrf.TokenName, Value: "existing-token"})

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, fiber.StatusCreated, res.StatusCode)
	assert.Equal(t, "existing-token", res.Header.Get(csrf.TokenName))
	assert.Equal(t, "existing-token", cookieValue(t, res, csrf.TokenName))
}

func TestTokenHandlerTokensDiffer(t *testing.T) {
	app := newApp()

	first, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/csrf", nil))
	require.NoError(t, err)
	defer first.Body.Close()

	second, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/csrf", nil))
	require.NoError(t, err)
	defer second.Body.Close()

	assert.NotEqual(t, first.Header.Get(csrf.TokenName), second.Header.Get(csrf.TokenName))
}

func TestValidate(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(fiber.StatusForbidden)
		},
	})
	app.Post("/mutate", func(c *fiber.Ctx) error {
		if err := csrf.Validate(c); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name   string
		cookie string
		header string
		want   int
	}{
		{
			name:   "Matching pair",
			cookie: "tok-123",
			header: "tok-123",
			want:   fiber.StatusOK,
		},
		{
			name:   "Mismatched pair",
			cookie: "tok-123",
			header: "tok-456",
			want:   fiber.StatusForbidden,
		},
		{
			name:   "Missing header",
			cookie: "tok-123",
			header: "",
			want:   fiber.StatusForbidden,
		},
		{
			name:   "Missing cookie",
			cookie: "",
			header: "tok-123",
			want:   fiber.StatusForbidden,
		},
		{
			name:   "Both missing",
			cookie: "",
			header: "",
			want:   fiber.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/mutate", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrf.TokenName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrf.TokenName, tt.header)
			}

			res, err := app.Test(req)
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}
