package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"virtual-airline/constants"
	"virtual-airline/logger"
	"virtual-airline/types"
)

// RequirePermissions admits callers holding any of the given permissions
func RequirePermissions(permissions ...string) fiber.Handler {
	return IsAuthenticated(permissions)
}

// RequireAuthentication admits any caller with a valid token
func RequireAuthentication() fiber.Handler {
	return IsAuthenticated([]string{constants.PermAny})
}

// IsAuthenticated verifies the SSO bearer token and attaches the pilot's
// identity to the request context: the full claims under "user", plus
// "username" and "user_id" for handlers that only need the caller.
func IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return unauthorized(c, err.Error())
		}

		claims, err := VerifyJWT(token)
		if err != nil {
			logger.Error("JWT verification failed", err)
			return unauthorized(c, "Invalid or expired token")
		}

		if !allowed(claims, requiredPermissions) {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Insufficient permissions",
			})
		}

		username, _ := claims["username"].(string)
		if username == "" {
			return unauthorized(c, "Session expired. Login again.")
		}

		c.Locals("user", map[string]interface{}(claims))
		c.Locals("username", username)
		if id, ok := claims["user_id"].(float64); ok {
			c.Locals("user_id", uint(id))
		}
		return c.Next()
	}
}

// bearerToken pulls the JWT from the Authorization header, falling back
// to the SSO access cookie
func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}
	if token := c.Cookies("access"); token != "" {
		return token, nil
	}
	return "", errors.New("authorization token missing")
}

// allowed reports whether the claims grant any of the required
// permissions. constants.PermAny short-circuits to token validity alone.
func allowed(claims jwt.MapClaims, required []string) bool {
	for _, perm := range required {
		if perm == constants.PermAny {
			return true
		}
	}
	granted := permissionSet(claims)
	for _, perm := range required {
		if granted[perm] {
			return true
		}
	}
	return false
}

func permissionSet(claims jwt.MapClaims) map[string]bool {
	set := make(map[string]bool)
	raw, ok := claims["permissions"].([]interface{})
	if !ok {
		return set
	}
	for _, p := range raw {
		if perm, ok := p.(string); ok {
			set[perm] = true
		}
	}
	return set
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
		Status:  fiber.StatusUnauthorized,
		Message: message,
	})
}
