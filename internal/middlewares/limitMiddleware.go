package middlewares

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var ipVisitors = make(map[string]*visitor)
var phoneVisitors = make(map[string]*visitor)
var mu sync.Mutex

func getLimiter(key string, isUser bool) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	var v *visitor
	var exists bool

	if isUser {
		v, exists = phoneVisitors[key]
	} else {
		v, exists = ipVisitors[key]
	}

	if !exists {
		limiter := rate.NewLimiter(3, 5)
		v = &visitor{limiter, time.Now()}
		if isUser {
			phoneVisitors[key] = v
		} else {
			ipVisitors[key] = v
		}
	}

	v.lastSeen = time.Now()

	return v.limiter
}

func CleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		mu.Lock()
		for ip, v := range ipVisitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(ipVisitors, ip)
			}
		}
		for phone, v := range phoneVisitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(phoneVisitors, phone)
			}
		}
		mu.Unlock()
	}
}

// RateLimit throttles requests per authenticated phone when a session is
// present, otherwise per remote IP.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var limiter *rate.Limiter

		if phone, ok := PhoneFromContext(r.Context()); ok {
			limiter = getLimiter(phone, true)
		} else {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			limiter = getLimiter(ip, false)
		}

		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
