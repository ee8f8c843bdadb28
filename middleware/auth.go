package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"service-connect-server/services"
	"service-connect-server/types"
)

const actorKey = "actor"

// TokenValidator turns a signed token into an actor
type TokenValidator interface {
	ValidateToken(token string) (types.Actor, error)
}

// Authenticator resolves the caller from a bearer header, the session cookie
// or, for websocket upgrades, a token query parameter.
type Authenticator struct {
	tokens     TokenValidator
	cookieName string
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(tokens TokenValidator, cookieName string) *Authenticator {
	return &Authenticator{tokens: tokens, cookieName: cookieName}
}

// Required rejects requests without a valid token and stores the actor in
// the context otherwise.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, source := a.extract(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Provide a bearer token or sign in",
			})
			return
		}

		actor, err := a.tokens.ValidateToken(tokenString)
		if err != nil {
			log.Printf("🔍 Rejected %s token on %s %s: %v", source, c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid or expired",
			})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func (a *Authenticator) extract(c *gin.Context) (string, string) {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token), "bearer"
		}
	}
	if a.cookieName != "" {
		if cookie, err := c.Cookie(a.cookieName); err == nil && cookie != "" {
			return cookie, "cookie"
		}
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		if token := c.Query("token"); token != "" {
			return token, "query"
		}
	}
	return "", ""
}

// RequireRole lets through only actors holding one of roles. It must run
// after Required.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Provide a bearer token or sign in",
			})
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"message": "This endpoint requires role " + joinRoles(roles),
		})
	}
}

// ActorFrom returns the authenticated actor stored by Required
func ActorFrom(c *gin.Context) (types.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return types.Actor{}, false
	}
	actor, ok := v.(types.Actor)
	return actor, ok
}

// CurrentActor is ActorFrom for handlers mounted behind Required
func CurrentActor(c *gin.Context) types.Actor {
	actor, _ := ActorFrom(c)
	return actor
}

func joinRoles(roles []types.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, " or ")
}

var _ TokenValidator = (*services.JWTService)(nil)
