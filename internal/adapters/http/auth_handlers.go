package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

const tokenInfoKey = "token_info"

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyTokenRequest struct {
	IDToken string `json:"idToken"`
}

// SignUpHandler creates an account.
func SignUpHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signUpRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		u, err := deps.Auth.SignUp(c.UserContext(), req.Name, req.Email, req.Password)
		if err != nil {
			return errorFrom(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"uid":     u.UID,
			"email":   u.Email,
		})
	}
}

// LoginHandler exchanges email and password for an ID token.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		session, err := deps.Auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return errorFrom(c, err)
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{
			"success": true,
			"session": session,
		})
	}
}

// VerifyTokenHandler checks an ID token and returns its uid and claims.
func VerifyTokenHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyTokenRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		info, err := deps.Auth.VerifyToken(c.UserContext(), req.IDToken)
		if err != nil {
			if isClientAuthError(err) {
				return errUnauthorized(c, "Invalid token")
			}
			return errorFrom(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"uid":     info.UID,
			"claims":  info.Claims,
		})
	}
}

// RequireAuth verifies the bearer token and stores the *domain.TokenInfo
// in c.Locals for the handlers behind it.
func RequireAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="legallib"`)
			return errUnauthorized(c, "bearer token required")
		}
		info, err := deps.Auth.VerifyToken(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			if isClientAuthError(err) {
				c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="legallib", error="invalid_token"`)
				return errUnauthorized(c, "Invalid token")
			}
			return errorFrom(c, err)
		}
		c.Locals(tokenInfoKey, info)
		return c.Next()
	}
}

// TokenFromCtx returns the verified token of the current request, if any.
func TokenFromCtx(c *fiber.Ctx) *domain.TokenInfo {
	info, _ := c.Locals(tokenInfoKey).(*domain.TokenInfo)
	return info
}

// Bad or expired tokens surface as invalid input or unauthorized from the
// provider; both are a 401 to the caller.
func isClientAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInvalidInput)
}
