package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// window counts requests from one IP in a fixed window.
type window struct {
	count int
	end   time.Time
}

type ipLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
	calls   int
}

// purgeEvery is how many requests pass between sweeps of expired windows.
const purgeEvery = 1000

// allow records a request and reports whether it is within the limit, plus
// how long until the window resets.
func (l *ipLimiter) allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.calls++
	if l.calls%purgeEvery == 0 {
		l.purgeLocked(now)
	}

	w, ok := l.windows[ip]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(l.period)}
		l.windows[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.end.Sub(now)
}

func (l *ipLimiter) purgeLocked(now time.Time) {
	purged := 0
	for ip, w := range l.windows {
		if now.After(w.end) {
			delete(l.windows, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.windows)).Msg("rate limiter windows purged")
	}
}

func newIPLimiter(limit int, period time.Duration) *ipLimiter {
	return &ipLimiter{limit: limit, period: period, now: time.Now, windows: make(map[string]*window)}
}

// RateLimiter rejects more than limit requests per window from the same IP.
func RateLimiter(limit int, period time.Duration) gin.HandlerFunc {
	l := newIPLimiter(limit, period)
	return func(c *gin.Context) {
		ok, retry := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
