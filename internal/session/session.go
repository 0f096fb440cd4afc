// Package session keeps login state server side in Redis, keyed by an
// opaque cookie. A session holds two independent slots so a browser can be
// signed in as a customer and as an admin at the same time.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const contextKey = "session"

// Data is the stored session payload
type Data struct {
	User  *models.Principal `json:"user,omitempty"`
	Admin *models.Principal `json:"admin,omitempty"`
}

func (d *Data) empty() bool {
	return d.User == nil && d.Admin == nil
}

// Options configure the session cookie
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager loads and persists sessions
type Manager struct {
	rdb    *redis.Client
	opts   Options
	logger *zap.Logger
}

// NewManager creates a session manager backed by rdb
func NewManager(rdb *redis.Client, opts Options) *Manager {
	return &Manager{
		rdb:    rdb,
		opts:   opts,
		logger: util.ComponentLogger("session"),
	}
}

func redisKey(id string) string {
	return "session:" + id
}

// Load returns the session stored under id. A missing session is empty,
// not an error.
func (m *Manager) Load(ctx context.Context, id string) (*Data, error) {
	raw, err := m.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		m.logger.Warn("Discarding unreadable session", zap.Error(err))
		return &Data{}, nil
	}
	return &d, nil
}

// Save writes d under id and refreshes its TTL
func (m *Manager) Save(ctx context.Context, id string, d *Data) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := m.rdb.Set(ctx, redisKey(id), payload, m.opts.TTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.rdb.Del(ctx, redisKey(id)).Err()
}

type state struct {
	manager *Manager
	id      string
	data    *Data
}

// Middleware loads the caller's session into the gin context. A Redis
// failure leaves the request anonymous rather than failing it.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := &state{manager: m, data: &Data{}}

		if id, err := c.Cookie(m.opts.CookieName); err == nil && id != "" {
			d, err := m.Load(c.Request.Context(), id)
			if err != nil {
				m.logger.Error("Session lookup failed", zap.Error(err))
			} else {
				st.id = id
				st.data = d
			}
		}

		c.Set(contextKey, st)
		c.Next()
	}
}

func from(c *gin.Context) *state {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	st, _ := v.(*state)
	return st
}

// CurrentUser returns the signed-in customer, or nil
func CurrentUser(c *gin.Context) *models.Principal {
	if st := from(c); st != nil {
		return st.data.User
	}
	return nil
}

// CurrentAdmin returns the signed-in admin, or nil
func CurrentAdmin(c *gin.Context) *models.Principal {
	if st := from(c); st != nil {
		return st.data.Admin
	}
	return nil
}

// SetUser signs a customer in. The session is moved to a fresh id.
func SetUser(c *gin.Context, p *models.Principal) error {
	return update(c, true, func(d *Data) { d.User = p })
}

// SetAdmin signs an admin in. The session is moved to a fresh id.
func SetAdmin(c *gin.Context, p *models.Principal) error {
	return update(c, true, func(d *Data) { d.Admin = p })
}

// ClearUser signs the customer out, leaving any admin login in place
func ClearUser(c *gin.Context) error {
	return update(c, false, func(d *Data) { d.User = nil })
}

// ClearAdmin signs the admin out, leaving any customer login in place
func ClearAdmin(c *gin.Context) error {
	return update(c, false, func(d *Data) { d.Admin = nil })
}

func update(c *gin.Context, rotate bool, fn func(*Data)) error {
	st := from(c)
	if st == nil {
		return errors.New("session middleware not installed")
	}

	next := *st.data
	fn(&next)
	m := st.manager
	ctx := c.Request.Context()

	if next.empty() {
		if st.id != "" {
			if err := m.Delete(ctx, st.id); err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
			m.setCookie(c, "", -1)
		}
		st.id = ""
		st.data = &next
		return nil
	}

	id := st.id
	if id == "" || rotate {
		id = uuid.New().String()
	}
	if err := m.Save(ctx, id, &next); err != nil {
		return err
	}
	if st.id != "" && st.id != id {
		if err := m.Delete(ctx, st.id); err != nil {
			m.logger.Warn("Failed to drop previous session", zap.Error(err))
		}
	}

	st.id = id
	st.data = &next
	m.setCookie(c, id, int(m.opts.TTL.Seconds()))
	return nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, value, maxAge, "/", "", m.opts.Secure, true)
}
