package serverutils

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"notecapture-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, app *fiber.App, method, target, token string) (int, BaseResponse[any]) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestParseTokenRejectsEmptySecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	forged := signToken(t, "", jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	userId, err := ParseToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, uuid.Nil, userId)
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	app := fiber.New()
	app.Get("/me", JwtMiddleware, func(ctx *fiber.Ctx) error {
		userId, err := UserId(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", userId.String()))
	})

	userId := uuid.New()
	valid := signToken(t, testSecret, jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	t.Run("valid token", func(t *testing.T) {
		status, body := decode(t, app, "GET", "/me", valid)
		assert.Equal(t, 200, status)
		assert.True(t, body.Success)
		assert.Equal(t, userId.String(), body.Data)
	})

	cases := []struct {
		name    string
		token   string
		message string
	}{
		{name: "missing", token: "", message: "Missing token"},
		{name: "wrong secret", token: signToken(t, "other", jwt.MapClaims{"user_id": userId.String()}), message: "Invalid token"},
		{name: "expired", token: signToken(t, testSecret, jwt.MapClaims{"user_id": userId.String(), "exp": time.Now().Add(-time.Hour).Unix()}), message: "Invalid token"},
		{name: "no user", token: signToken(t, testSecret, jwt.MapClaims{"sub": "x"}), message: "Invalid token"},
		{name: "garbage", token: "not-a-jwt", message: "Invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := decode(t, app, "GET", "/me", tc.token)
			assert.Equal(t, 401, status)
			assert.False(t, body.Success)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

type createRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Image       *string `json:"imageLocation" validate:"omitempty,max=5"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(createRequest{Name: "a", Description: "b"}))

	err := ValidateRequest(createRequest{Name: "a"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, map[string]string{"description": "required"}, validationErr.Fields)

	long := "too long"
	err = ValidateRequest(createRequest{Image: &long})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, map[string]string{
		"name":          "required",
		"description":   "required",
		"imageLocation": "max",
	}, validationErr.Fields)
	assert.Equal(t, "validation failed: description required, imageLocation max, name required", err.Error())
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/validation", func(ctx *fiber.Ctx) error {
		return ValidateRequest(createRequest{})
	})
	app.Get("/missing", func(ctx *fiber.Ctx) error {
		return fmt.Errorf("lookup: %w", contract.ErrNoteNotFound)
	})
	app.Get("/fiber", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusConflict, "Conflict")
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return fmt.Errorf("boom")
	})

	status, body := decode(t, app, "GET", "/validation", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, map[string]interface{}{"name": "required", "description": "required"}, body.Data)

	status, body = decode(t, app, "GET", "/missing", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "Note not found", body.Message)

	status, body = decode(t, app, "GET", "/fiber", "")
	assert.Equal(t, 409, status)
	assert.Equal(t, 409, body.Code)

	status, body = decode(t, app, "GET", "/boom", "")
	assert.Equal(t, 500, status)
	assert.Equal(t, "boom", body.Message)
	assert.False(t, body.Success)

	status, _ = decode(t, app, "GET", "/nowhere", "")
	assert.Equal(t, 404, status)
}
