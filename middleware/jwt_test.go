package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"planpractice/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonResponseEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ping", func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"x": 1})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &payload))

	// the frontend reads response.success, the key name is part of the API
	assert.Contains(t, payload, "success")
	assert.Contains(t, payload, "message")
	assert.Contains(t, payload, "data")
	assert.NotContains(t, payload, "status")
	assert.Equal(t, json.RawMessage("true"), payload["success"])
}

func TestJWTMiddlewareSetsLocals(t *testing.T) {
	config.LoadConfig()

	token, err := GenerateJWT(7, "Ana", "TEACHER", "ana@example.com")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/secure", JWTMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userId").(uint)
		role, _ := c.Locals("role").(string)
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"userId": userID,
			"role":   role,
		})
	})

	req := httptest.NewRequest(fiber.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			UserID uint   `json:"userId"`
			Role   string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, uint(7), envelope.Data.UserID)
	assert.Equal(t, "TEACHER", envelope.Data.Role)
}

func TestJWTMiddlewareRejectsMalformedUserClaim(t *testing.T) {
	config.LoadConfig()

	claims := jwt.MapClaims{
		"userId": "not-a-number",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.AppConfig.JWTKey))
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/secure", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/secure", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/secure", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
