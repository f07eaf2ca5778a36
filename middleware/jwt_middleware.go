// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Token lifetimes. The refresh token only ever buys a new access token; it
// carries the same claims.
const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Valid implements the Claims interface for Echo's JWT middleware
func (c JwtCustomClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return errors.New("token is expired")
	}

	if c.NotBefore > 0 && time.Now().Unix() < c.NotBefore {
		return errors.New("token used before valid")
	}

	return nil
}

// Revoked tokens live in Redis so revocation survives restarts and is shared
// between instances. Without Redis we fall back to an in-process map.
var (
	revokedRedis   *redis.Client
	revokedLocal   = make(map[string]time.Time)
	revokedLocalMu sync.RWMutex
)

const revokedKeyPrefix = "revoked_token:"

// UseRevocationStore sets the Redis client backing the token blacklist.
// A nil client keeps the in-memory fallback.
func UseRevocationStore(client *redis.Client) {
	revokedRedis = client
}

// RevokeToken blacklists a token until its expiry.
func RevokeToken(token string, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}

	if revokedRedis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return revokedRedis.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err()
	}

	revokedLocalMu.Lock()
	revokedLocal[token] = expiry
	revokedLocalMu.Unlock()
	return nil
}

// IsTokenRevoked checks if a token has been blacklisted by logout.
func IsTokenRevoked(token string) bool {
	if revokedRedis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := revokedRedis.Exists(ctx, revokedKeyPrefix+token).Result()
		if err != nil {
			log.Printf("Revocation check failed, treating token as valid: %v", err)
			return false
		}
		return n > 0
	}

	revokedLocalMu.RLock()
	defer revokedLocalMu.RUnlock()
	_, exists := revokedLocal[token]
	return exists
}

// CleanupRevokedTokens periodically drops expired entries from the in-memory
// fallback. Redis entries expire on their own TTL.
func CleanupRevokedTokens() {
	for {
		time.Sleep(1 * time.Hour)
		now := time.Now()
		revokedLocalMu.Lock()
		for token, expiry := range revokedLocal {
			if now.After(expiry) {
				delete(revokedLocal, token)
			}
		}
		revokedLocalMu.Unlock()
	}
}

// GetJWTSecret returns the JWT secret from environment variables
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
	return secret
}

// JWTMiddleware returns a configured JWT middleware
func JWTMiddleware() echo.MiddlewareFunc {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("Warning: JWT_SECRET environment variable is not set")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return echo.NewHTTPError(echo.ErrUnauthorized.Code, "JWT configuration error")
			}
		}
	}

	return echomiddleware.JWTWithConfig(echomiddleware.JWTConfig{
		SigningKey: []byte(secret),
		Claims:     &JwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			user := c.Get("user").(*jwt.Token)

			if IsTokenRevoked(user.Raw) {
				c.Error(echo.NewHTTPError(echo.ErrUnauthorized.Code, "Token has been invalidated"))
				return
			}

			claims := user.Claims.(*JwtCustomClaims)

			// Store claims in context for easy access
			c.Set("userId", claims.UserID)
			c.Set("role", claims.Role)
			c.Set("email", claims.Email)
		},
		ErrorHandler: func(err error) error {
			log.Printf("JWT middleware error: %v", err)
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Please provide valid credentials")
		},
	})
}

// GenerateJWT generates a new access token together with a refresh token.
func GenerateJWT(userID, email, role string) (string, string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", "", errors.New("JWT_SECRET environment variable is required")
	}

	now := time.Now()

	claims := &JwtCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(AccessTokenTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	refreshClaims := &JwtCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(RefreshTokenTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	refreshTokenString, err := refreshToken.SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	return tokenString, refreshTokenString, nil
}

// ParseToken validates a raw token string and returns its claims.
func ParseToken(tokenString string) (*JwtCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(GetJWTSecret()), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// GetUserFromToken extracts user claims from the request context
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	user := c.Get("user")
	if user == nil {
		return nil
	}

	token, ok := user.(*jwt.Token)
	if !ok {
		return nil
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}

	return claims
}

// ExtractUserID returns the authenticated user's id from the context.
func ExtractUserID(c echo.Context) (string, error) {
	if userID, ok := c.Get("userId").(string); ok && userID != "" {
		return userID, nil
	}

	claims := GetUserFromToken(c)
	if claims != nil && claims.UserID != "" {
		return claims.UserID, nil
	}

	return "", errors.New("invalid token")
}

// ExtractRole safely extracts the role claim from the context
func ExtractRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok && role != "" {
		return role
	}

	claims := GetUserFromToken(c)
	if claims != nil {
		return claims.Role
	}

	return ""
}
