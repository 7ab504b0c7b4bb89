package middleware

import (
	"github.com/gin-gonic/gin"

	"messenger-service/pkg/apperrors"
	"messenger-service/pkg/auth"
)

const (
	UserIDKey   = "userID"
	UsernameKey = "username"
	IsAdminKey  = "isAdmin"
)

// AuthMiddleware validates the Authorization header with the local JWT manager.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			abortUnauthorized(c, "missing authorization")
			return
		}

		identity, err := jwtManager.Verify(token)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(UsernameKey, identity.Username)
		c.Set(IsAdminKey, identity.IsAdmin)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	err := apperrors.Unauthorized(message)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"success": false, "message": apperrors.ClientMessage(err)})
}
