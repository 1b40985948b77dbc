package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "€0.00", FormatCents(0))
	assert.Equal(t, "€25.00", FormatCents(2500))
	assert.Equal(t, "€0.01", FormatCents(1))
	assert.Equal(t, "€1234.56", FormatCents(123456))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KB", FormatFileSize(1024))
	assert.Equal(t, "2.5 MB", FormatFileSize(2621440))
	assert.Equal(t, "1.0 GB", FormatFileSize(1073741824))
}

func TestGetClientIPFromXForwardedFor(t *testing.T) {
	app := fiber.New()

	var ipv4, ipv6 string
	app.Get("/", func(c *fiber.Ctx) error {
		ipv4, ipv6 = GetClientIP(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 2001:db8::1")

	_, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ipv4)
	assert.Equal(t, "2001:db8::1", ipv6)
}

func TestGetClientIPFromCloudflareHeader(t *testing.T) {
	app := fiber.New()

	var ipv4, ipv6 string
	app.Get("/", func(c *fiber.Ctx) error {
		ipv4, ipv6 = GetClientIP(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.23")

	_, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, "198.51.100.23", ipv4)
	assert.Equal(t, "", ipv6)
}

func TestExtractUsername(t *testing.T) {
	app := fiber.New()

	var name string
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(USER_NAME, "jane.doe")
		name = ExtractUsername(c)
		return c.SendString("ok")
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	assert.NoError(t, err)
	assert.Equal(t, "jane.doe", name)
}
