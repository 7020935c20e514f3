package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"tasksAPI/internal/logger"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const RequestIdKey contextKey = "request_id"

const RequestIdHeader = "X-Request-ID"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.New().String()
		}

		w.Header().Set(RequestIdHeader, requestId)

		ctx := context.WithValue(r.Context(), RequestIdKey, requestId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIdKey).(string); ok {
		return id
	}
	return ""
}

type loggingWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (lw *loggingWriter) WriteHeader(code int) {
	if !lw.wroteHeader {
		lw.status = code
		lw.wroteHeader = true
		lw.ResponseWriter.WriteHeader(code)
	}
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if !lw.wroteHeader {
		lw.WriteHeader(http.StatusOK)
	}

	n, err := lw.ResponseWriter.Write(b)
	lw.size += n
	return n, err
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestId := GetRequestID(r.Context())

		logger.Info(
			"HTTP_IN: request started",
			zap.String("request_id", requestId),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client_ip", r.RemoteAddr),
		)

		lw := &loggingWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}
		next.ServeHTTP(lw, r)

		logLevel := zap.InfoLevel
		if lw.status >= 400 && lw.status < 500 {
			logLevel = zap.WarnLevel
		} else if lw.status >= 500 {
			logLevel = zap.ErrorLevel
		}
		logger.Log(
			logLevel,
			"HTTP_OUT: request finished",
			zap.String("request_id", requestId),
			zap.Int("status", lw.status),
			zap.Int("bytes_written", lw.size),
			zap.Duration("ms", time.Since(start)),
		)
	})
}

type clientInfo struct {
	count   int
	resetAt time.Time
}

// pruneEvery is how many requests pass between sweeps of expired clients.
const pruneEvery = 1000

type rateLimiter struct {
	rpm        int
	window     time.Duration
	pruneEvery int
	now        func() time.Time

	mtx      sync.Mutex
	clients  map[string]*clientInfo
	requests int
}

func newRateLimiter(rpm int) *rateLimiter {
	return &rateLimiter{
		rpm:        rpm,
		window:     time.Minute,
		pruneEvery: pruneEvery,
		now:        time.Now,
		clients:    make(map[string]*clientInfo),
	}
}

// allow counts a request from ip. It returns the remaining quota and the end
// of the current window, or ok == false once the quota is spent.
func (l *rateLimiter) allow(ip string) (remaining int, resetAt time.Time, ok bool) {
	now := l.now()

	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.requests++
	if l.requests >= l.pruneEvery {
		l.requests = 0
		l.prune(now)
	}

	info, exists := l.clients[ip]
	if !exists || now.After(info.resetAt) {
		info = &clientInfo{
			count:   0,
			resetAt: now.Add(l.window),
		}
		l.clients[ip] = info
	}

	if info.count >= l.rpm {
		return 0, info.resetAt, false
	}

	info.count++
	return l.rpm - info.count, info.resetAt, true
}

// prune drops clients whose window has ended. Callers hold l.mtx.
func (l *rateLimiter) prune(now time.Time) {
	for ip, info := range l.clients {
		if now.After(info.resetAt) {
			delete(l.clients, ip)
		}
	}
}

// RateLimit allows rpm requests per client IP in a fixed one minute window.
// rpm <= 0 disables the limit.
func RateLimit(rpm int) func(http.Handler) http.Handler {
	limiter := newRateLimiter(rpm)

	return func(next http.Handler) http.Handler {
		if rpm <= 0 {
			return next
		}
		return limiter.middleware(next)
	}
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining, resetAt, ok := l.allow(getIp(r))

		if !ok {
			retryAfter := int(resetAt.Sub(l.now()).Seconds())

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.WriteHeader(http.StatusTooManyRequests)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":       "RATE_LIMIT_EXCEEDED",
				"message":     "too many requests, try again later",
				"retry_after": retryAfter,
				"request_id":  GetRequestID(r.Context()),
			})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.rpm))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
