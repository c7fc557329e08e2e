package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var ErrUnauthorized = errors.New("gateway: unauthorized")

// checkToken compares a presented bearer token with the configured one.
// An empty configured token denies everything.
func checkToken(want, got string) error {
	if want == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// requireToken guards write routes with "Authorization: Bearer <token>".
func requireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if err := checkToken(token, strings.TrimSpace(got)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
