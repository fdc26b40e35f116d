package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey    = "userID"
	userIDHeader = "X-User-ID"
)

// Identity resolves the caller and stores it under "userID".
//
// With a secret, a Bearer token must be a valid HS256 JWT; the user is its
// "uid" claim, else "sub". A present but invalid token is rejected with 401.
// Without a secret, X-User-ID is trusted as is (development mode).
// Requests without credentials proceed anonymously.
func Identity(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		if secret == "" {
			if uid := strings.TrimSpace(c.GetHeader(userIDHeader)); uid != "" {
				c.Set(userIDKey, uid)
			}
			c.Next()
			return
		}

		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		claims := jwt.MapClaims{}
		_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return key, nil })
		uid := claimString(claims, "uid")
		if uid == "" {
			uid = claimString(claims, "sub")
		}
		if err != nil || uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "unauthorized",
				"message":    "invalid token",
			})
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// UserID returns the caller resolved by Identity, or "" when anonymous.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func claimString(c jwt.MapClaims, name string) string {
	s, _ := c[name].(string)
	return strings.TrimSpace(s)
}
