package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
)

const ContextActor = "actor"

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, errCode := actorFromHeader(c.GetHeader("Authorization"), secret)
		if errCode != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errCode})
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is present. A malformed
// or expired token is still rejected; no header at all is fine.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		actor, errCode := actorFromHeader(header, secret)
		if errCode != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errCode})
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// ActorFrom returns the actor set by RequireAuth or OptionalAuth.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

func actorFromHeader(authHeader, secret string) (domain.Actor, string) {
	if authHeader == "" {
		return domain.Actor{}, "missing_authorization_header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.Actor{}, "invalid_authorization_header"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, "invalid_token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, "invalid_token_claims"
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	roleClaim, _ := claims["role"].(string)

	role, ok := domain.ParseRole(roleClaim)
	if strings.TrimSpace(sub) == "" || !ok {
		return domain.Actor{}, "invalid_token_payload"
	}

	return domain.Actor{ID: sub, Name: name, Role: role}, ""
}
