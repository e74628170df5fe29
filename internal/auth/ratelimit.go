package auth

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ziadkadry99/campusmap/internal/logging"
)

// IPRateLimiter keeps one token bucket per client IP. Buckets that have
// refilled completely carry no state and are dropped by Sweep.
type IPRateLimiter struct {
	limiters sync.Map // ip -> *bucket
	rate     rate.Limit
	burst    int
	log      *logging.Logger
	now      func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen atomic.Int64 // unix nanoseconds of the last Allow
}

// NewIPRateLimiter creates a limiter allowing r events per second with the given burst.
func NewIPRateLimiter(r rate.Limit, burst int, log *logging.Logger) *IPRateLimiter {
	return &IPRateLimiter{rate: r, burst: burst, log: logging.Or(log), now: time.Now}
}

// NewLoginRateLimiter allows 5 attempts per minute per IP, burst 5.
func NewLoginRateLimiter(log *logging.Logger) *IPRateLimiter {
	return NewIPRateLimiter(rate.Limit(5.0/60.0), 5, log)
}

func (i *IPRateLimiter) bucket(ip string) *bucket {
	if b, ok := i.limiters.Load(ip); ok {
		return b.(*bucket)
	}
	b, _ := i.limiters.LoadOrStore(ip, &bucket{lim: rate.NewLimiter(i.rate, i.burst)})
	return b.(*bucket)
}

// Allow consumes one token for ip.
func (i *IPRateLimiter) Allow(ip string) bool {
	now := i.now()
	b := i.bucket(ip)
	b.seen.Store(now.UnixNano())
	return b.lim.AllowN(now, 1)
}

// refillTime is how long an untouched bucket takes to fill up again.
// A negative result means buckets never refill.
func (i *IPRateLimiter) refillTime() time.Duration {
	switch {
	case i.rate == rate.Inf:
		return 0
	case i.rate <= 0:
		return -1
	}
	return time.Duration(float64(i.burst) / float64(i.rate) * float64(time.Second))
}

// Sweep drops buckets that have been idle long enough to be full again and
// returns how many it removed.
func (i *IPRateLimiter) Sweep() int {
	idle := i.refillTime()
	if idle < 0 {
		return 0
	}
	cutoff := i.now().Add(-idle).UnixNano()
	n := 0
	i.limiters.Range(func(key, value any) bool {
		b := value.(*bucket)
		if b.seen.Load() <= cutoff && i.limiters.CompareAndDelete(key, b) {
			n++
		}
		return true
	})
	return n
}

// Len reports how many IPs currently hold a bucket.
func (i *IPRateLimiter) Len() int {
	n := 0
	i.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Middleware rejects requests over the limit with 429.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !i.Allow(ip) {
			i.log.RateLimitExceeded(ip, r.URL.Path)
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error: "Too many login attempts. Please wait a minute and try again.",
				Kind:  "rate_limited",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port that RemoteAddr carries unless RealIP already
// replaced it with a bare address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
