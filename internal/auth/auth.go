package auth

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const userIDLocal = "auth_user_id"

// Verifier checks identity-provider JWTs against the provider's JWKS
// endpoint. Token issuance stays with the provider; we only verify.
type Verifier struct {
	jwks *keyfunc.JWKS
}

func NewVerifier(jwksURL string) (*Verifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Printf("⚠️ [AUTH] JWKS refresh failed: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return &Verifier{jwks: jwks}, nil
}

// UserID verifies the token and extracts the user id. The provider stores the
// app-level id in a "userId" claim during the id migration, falling back to
// the standard subject.
func (v *Verifier) UserID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, v.jwks.Keyfunc)
	if err != nil {
		return "", fmt.Errorf("token verification failed: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if userID, ok := claims["userId"].(string); ok && userID != "" {
		return userID, nil
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	return "", fmt.Errorf("token verified but no user id in payload")
}

// Middleware extracts the bearer identity into the request context. With
// required=true, requests without a valid token are rejected; the acting user
// id then always comes from the token, never from the request body. A nil
// verifier disables auth entirely (local development).
func Middleware(v *Verifier, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v == nil {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			if required {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
			}
			return c.Next()
		}

		userID, err := v.UserID(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.Printf("⚠️ [AUTH] %v", err)
			if required {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
			}
			return c.Next()
		}

		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id for the request, or "" when the
// request carried no valid token.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(userIDLocal).(string); ok {
		return id
	}
	return ""
}
