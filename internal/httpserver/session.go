package httpserver

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"plantshop/internal/cart"
	"plantshop/internal/domain"
	"plantshop/internal/service/identity"
)

const sessionCookie = "cart_session"

// SessionStores hands out a durable KV for one browsing session.
type SessionStores interface {
	KV(sessionID string) cart.KV
}

// RedisSessions backs browsing sessions with redis, one keyspace per
// session cookie.
type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func (s *RedisSessions) KV(sessionID string) cart.KV {
	return cart.NewRedisKV(s.client, sessionID)
}

// FileSessions backs browsing sessions with per-session directories on
// local disk. Used when no redis address is configured.
type FileSessions struct {
	dir string
}

func NewFileSessions(dir string) *FileSessions {
	return &FileSessions{dir: dir}
}

func (s *FileSessions) KV(sessionID string) cart.KV {
	kv, err := cart.NewFileKV(filepath.Join(s.dir, sessionID))
	if err != nil {
		return failedKV{err: err}
	}
	return kv
}

// failedKV surfaces a store that could not be opened. The cart treats the
// errors as persistence warnings and keeps working in memory.
type failedKV struct {
	err error
}

func (f failedKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failedKV) Set(context.Context, string, []byte) error   { return f.err }
func (f failedKV) Del(context.Context, string) error           { return f.err }

const (
	ctxKeyCart  = "cart"
	ctxKeyLiked = "liked"
)

// withSession resolves the session cookie (setting one on first contact)
// and builds the session's cart over its durable store. One active browsing
// session per cookie; the cart is its single writer.
func (h *handlers) withSession(c *gin.Context) {
	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie(sessionCookie, sessionID, int(30*24*60*60), "/", "", false, true)
	}

	kv := h.deps.Sessions.KV(sessionID)
	store := cart.NewEntryStore(kv)
	ident := &tokenIdentity{token: bearerToken(c), svc: h.deps.Identity}
	session := cart.NewSession(c.Request.Context(), store, h.deps.Catalog, ident, h.deps.Orders, h.logger)

	c.Set(ctxKeyCart, session)
	c.Set(ctxKeyLiked, cart.NewLikedList(kv))
	c.Next()
}

func sessionCart(c *gin.Context) *cart.Cart {
	return c.MustGet(ctxKeyCart).(*cart.Cart)
}

func sessionLiked(c *gin.Context) *cart.LikedList {
	return c.MustGet(ctxKeyLiked).(*cart.LikedList)
}

// tokenIdentity adapts the bearer token of the current request to the cart
// engine's identity contract. A missing or invalid token is simply a
// logged-out session, not an error.
type tokenIdentity struct {
	token string
	svc   identityService
}

func (t *tokenIdentity) CurrentUser(ctx context.Context) (*domain.User, error) {
	if t.token == "" {
		return nil, nil
	}
	u, err := t.svc.UserByToken(ctx, t.token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// requireAdmin gates the back office behind an authenticated admin user.
func (h *handlers) requireAdmin(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	u, err := h.deps.Identity.UserByToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !u.Admin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	c.Set("user", u)
	c.Next()
}
