package middleware

import (
	"os"
	"strings"

	"github.com/aisyah-bit/studyally-backend/internal/httpx"
	"github.com/aisyah-bit/studyally-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the identity provider puts in its access tokens. Email is
// the identity used for all membership decisions.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var tokenString string
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return httpx.Unauthorized(c, "invalid_authorization", "Invalid authorization format")
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Cookies("sa_access")
		}

		if tokenString == "" {
			return httpx.Unauthorized(c, "not_authenticated", "Missing access token")
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			return httpx.Unauthorized(c, "not_authenticated", "Invalid or expired token")
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || claims.Email == "" {
			return httpx.Unauthorized(c, "not_authenticated", "Invalid token")
		}

		// Store identity in context
		c.Locals("identity", validation.NormalizeEmail(claims.Email))
		c.Locals("displayName", claims.Name)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}
