package middleware

import (
	"strings"

	apperrors "storefront-api/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "email"
)

type TokenValidator interface {
	ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error)
}

// AuthRequired accepts a Bearer access token and stores the caller's user id
// (hex ObjectID) and email on the context.
func AuthRequired(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(tokenStr), "access")
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		sub, _ := claims["sub"].(string)
		if _, err := primitive.ObjectIDFromHex(sub); err != nil {
			abortUnauthorized(c, "invalid subject claim")
			return
		}
		email, _ := claims["email"].(string)

		c.Set(UserIDKey, sub)
		c.Set(UserEmailKey, email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, details string) {
	e := apperrors.ErrInvalidToken
	c.AbortWithStatusJSON(e.Code, gin.H{
		"success": false,
		"code":    e.Code,
		"message": e.Message,
		"details": details,
	})
}
