package middleware

import (
	"strconv"
	"strings"
	"time"

	"arena-api/config"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const userIDKey = "userID"

func secret() []byte {
	return []byte(config.JWTSecret)
}

// SignToken issues an HS256 token whose subject is the user id
func SignToken(userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

func parseToken(raw string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || id == 0 {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return uint(id), nil
}

// SetUserIdMiddleware attaches the user id of a valid bearer token to the context.
// Requests without a token, or with an invalid one, go through anonymously
func SetUserIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.JWTSecret == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if userID, err := parseToken(token); err == nil {
				c.Set(userIDKey, userID)
			} else {
				log.WithField("request_id", c.GetString(requestIDKey)).Debugf("Ignoring invalid bearer token: %v", err)
			}
		}
		c.Next()
	}
}

// UserIDFromContext returns the user id set by SetUserIdMiddleware
func UserIDFromContext(c *gin.Context) (uint, bool) {
	userID, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}
