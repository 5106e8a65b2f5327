package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const identityTokenTTL = 72 * time.Hour

// GetIdentity mints a fresh anonymous identity and a signed token carrying
// it. The client persists both; every subsequent call presents the token.
func (h *Handler) GetIdentity(c *gin.Context) {
	identity := uuid.NewString()

	token, err := h.signIdentity(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"identity": identity, "token": token})
}

func (h *Handler) signIdentity(identity string) (string, error) {
	claims := jwt.MapClaims{
		"anon_id": identity,
		"exp":     time.Now().Add(identityTokenTTL).Unix(),
		"iss":     "six-backend",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}

// verifyIdentity extracts the anonymous identity from a signed token.
func (h *Handler) verifyIdentity(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("malformed claims")
	}
	identity, ok := claims["anon_id"].(string)
	if !ok || identity == "" {
		return "", errors.New("token carries no identity")
	}
	return identity, nil
}

// RequireIdentity is middleware that resolves the caller's identity from
// the Authorization header (or, for websocket upgrades, the token query
// parameter) and stores it on the context.
func (h *Handler) RequireIdentity(c *gin.Context) {
	tokenString := ""
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		tokenString = strings.TrimPrefix(auth, "Bearer ")
	} else if q := c.Query("token"); q != "" {
		tokenString = q
	}
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
		return
	}

	identity, err := h.verifyIdentity(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.Set("identity", identity)
	c.Next()
}

func callerIdentity(c *gin.Context) string {
	return c.GetString("identity")
}
