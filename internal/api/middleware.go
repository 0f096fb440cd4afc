package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/session"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requireUser rejects requests without a customer session
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please log in"})
			return
		}
		c.Next()
	}
}

// requireAdmin rejects requests without an admin session. Programmatic
// clients get a 401, browsers are sent back to the panel entry.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.CurrentAdmin(c) != nil {
			c.Next()
			return
		}
		if wantsJSON(c.Request) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Redirect(http.StatusFound, "/panel/")
		c.Abort()
	}
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "json") ||
		strings.Contains(r.Header.Get("Content-Type"), "json")
}

// loginRateLimit counts credential attempts per client IP. A limiter
// failure lets the request through.
func (h *Handler) loginRateLimit(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Limiter == nil || h.LoginRatePerMinute <= 0 {
			c.Next()
			return
		}

		decision, err := h.Limiter.Allow(c.Request.Context(), action+":"+c.ClientIP(), h.LoginRatePerMinute, time.Minute)
		if err != nil {
			h.logger.Warn("Rate limiter unavailable", zap.String("action", action), zap.Error(err))
			c.Next()
			return
		}

		if !decision.Allowed {
			util.AuthAttemptsTotal.WithLabelValues(action, "rate_limited").Inc()
			retry := int(decision.RetryAfter.Round(time.Second).Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, try again later"})
			return
		}
		c.Next()
	}
}
