package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/apperror"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

const contextUserKey = "currentUser"

// requireAuth validates the bearer token and reloads the account on every
// request, so role or employee changes take effect without re-login.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		subject, err := claims.GetSubject()
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		userID, err := strconv.ParseUint(subject, 10, 64)
		if err != nil || userID == 0 {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		user, err := h.auth.LoadUser(c.Request.Context(), uint(userID))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  string(apperror.CodeUnauthorized),
	})
}

func currentUser(c *gin.Context) models.User {
	value, _ := c.Get(contextUserKey)
	user, _ := value.(models.User)
	return user
}
