package server

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const headerRequestID = "X-Request-Id"

// RequestID tags every request with an identifier so log lines and client
// error reports can be correlated. An inbound header is honoured when
// present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimSpace(req.Header.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, req)
	})
}

// visitorTTL bounds how long an idle client keeps its limiter entry. The
// client key derives from request headers, so without expiry the map could
// be grown without limit by a hostile caller.
const visitorTTL = 5 * time.Minute

type visitorEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket to the evaluation endpoints.
// Idle clients are swept out after visitorTTL.
type RateLimiter struct {
	logger    *slog.Logger
	perMin    float64
	burst     int
	clockNow  func() time.Time
	mu        sync.Mutex
	visitors  map[string]*visitorEntry
	lastSweep time.Time
}

// NewRateLimiter builds a limiter allowing perMinute requests with the given
// burst per client.
func NewRateLimiter(perMinute float64, burst int, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		logger:   logger,
		perMin:   perMinute,
		burst:    burst,
		clockNow: time.Now,
		visitors: make(map[string]*visitorEntry),
	}
}

// Middleware rejects clients that exceed the configured rate with 429.
func (l *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			limiter := l.obtain(clientID(req))
			if !limiter.Allow() {
				l.logger.Warn("rate limit exceeded", "client", clientID(req))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func (l *RateLimiter) obtain(id string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clockNow()
	l.sweepLocked(now)

	if entry, ok := l.visitors[id]; ok {
		entry.lastSeen = now
		return entry.limiter
	}
	limiter := rate.NewLimiter(rate.Limit(l.perMin/60), l.burst)
	l.visitors[id] = &visitorEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// sweepLocked drops entries idle past visitorTTL. Runs at most once per TTL
// so steady traffic does not rescan the map on every request. Callers hold
// l.mu.
func (l *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < visitorTTL {
		return
	}
	l.lastSweep = now
	for id, entry := range l.visitors {
		if now.Sub(entry.lastSeen) >= visitorTTL {
			delete(l.visitors, id)
		}
	}
}

func clientID(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		if first := strings.Split(forwarded, ",")[0]; strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
