package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"hausly/database"
	"hausly/models"
	"hausly/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ctxIdentity = "identity"
	ctxSession  = "session"
)

// IdentityVerifier turns a bearer token into a verified identity and its expiry.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (models.Identity, time.Time, error)
}

// TokenCache remembers recently verified tokens.
type TokenCache interface {
	Get(ctx context.Context, tokenHash string) (models.Identity, bool)
	Set(ctx context.Context, tokenHash string, id models.Identity, ttl time.Duration)
}

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	Client *auth.Client
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (models.Identity, time.Time, error) {
	if v.Client == nil {
		return models.Identity{}, time.Time{}, errors.New("firebase auth client not initialized")
	}
	tok, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return models.Identity{}, time.Time{}, err
	}
	id := models.Identity{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if verified, ok := tok.Claims["email_verified"].(bool); ok {
		id.EmailVerified = verified
	}
	return id, time.Unix(tok.Expires, 0), nil
}

// RedisTokenCache stores verified identities in the auth cache database.
type RedisTokenCache struct {
	Client *redis.Client
}

func (c *RedisTokenCache) Get(ctx context.Context, tokenHash string) (models.Identity, bool) {
	var id models.Identity
	raw, err := c.Client.Get(ctx, utils.AuthCachePrefix+tokenHash).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("auth cache read failed", zap.Error(err))
		}
		return id, false
	}
	if err := json.Unmarshal(raw, &id); err != nil || id.UID == "" {
		return id, false
	}
	return id, true
}

func (c *RedisTokenCache) Set(ctx context.Context, tokenHash string, id models.Identity, ttl time.Duration) {
	raw, err := json.Marshal(id)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, utils.AuthCachePrefix+tokenHash, raw, ttl).Err(); err != nil {
		zap.L().Warn("auth cache write failed", zap.Error(err))
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func resolveIdentity(c *gin.Context, verifier IdentityVerifier, cache TokenCache, token string) (models.Identity, error) {
	ctx := c.Request.Context()
	hash := utils.HashToken(token)
	if cache != nil {
		if id, ok := cache.Get(ctx, hash); ok {
			return id, nil
		}
	}

	id, expires, err := verifier.Verify(ctx, token)
	if err != nil {
		return models.Identity{}, err
	}
	if cache != nil {
		ttl := time.Until(expires)
		if ttl > utils.AuthCacheTTL {
			ttl = utils.AuthCacheTTL
		}
		if ttl > 0 {
			cache.Set(ctx, hash, id, ttl)
		}
	}
	return id, nil
}

// Authenticate requires a valid bearer token and stores the caller identity.
func Authenticate(verifier IdentityVerifier, cache TokenCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Missing or invalid Authorization header", "")
			return
		}
		id, err := resolveIdentity(c, verifier, cache, token)
		if err != nil {
			zap.L().Debug("token verification failed", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Invalid or expired token", "")
			return
		}
		c.Set(ctxIdentity, id)
		c.Next()
	}
}

// OptionalAuthenticate stores the identity when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthenticate(verifier IdentityVerifier, cache TokenCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if id, err := resolveIdentity(c, verifier, cache, token); err == nil {
				c.Set(ctxIdentity, id)
			}
		}
		c.Next()
	}
}

// UserLookup resolves a persisted user by auth UID.
type UserLookup interface {
	GetByUID(ctx context.Context, uid string) (*models.User, error)
}

// LoadUser attaches the persisted user record to the session. Must follow Authenticate.
func LoadUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Authentication required", "")
			return
		}
		u, err := users.GetByUID(c.Request.Context(), id.UID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				utils.JSONError(c, http.StatusNotFound, utils.CodeUserNotFound, "User profile not found", "Complete your profile first")
				return
			}
			utils.RespondError(c, err)
			return
		}
		c.Set(ctxSession, &models.Session{Identity: id, User: u})
		c.Next()
	}
}

// RequireRole rejects callers whose role is not listed. Must follow LoadUser.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil || !sess.HasRole(roles...) {
			utils.JSONError(c, http.StatusForbidden, utils.CodeInsufficientPermission, "Insufficient permissions", "")
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity set by Authenticate.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// SessionFrom returns the session set by LoadUser, or nil.
func SessionFrom(c *gin.Context) *models.Session {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}
