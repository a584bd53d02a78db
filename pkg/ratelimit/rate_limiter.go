package ratelimit

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/auth"
	"github.com/dayflow-app/dayflow-backend/pkg/communication"
	"github.com/dayflow-app/dayflow-backend/pkg/logger"
)

// now is the current time and is globally available to override it in tests
var now = time.Now

// RateLimiter rejects requests beyond a fixed-window budget per caller.
// Counters live in a StoreInterface, so a Redis store shares the budget
// across instances.
type RateLimiter struct {
	Store           StoreInterface
	ResponseManager *communication.ResponseManager
	Logger          logger.Interface
	Resource        string
	MaxRequests     int64
	WindowSeconds   int64
}

// Middleware gets called for every request that counts against the budget
func (m *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if m.MaxRequests <= 0 {
			next.ServeHTTP(writer, request)
			return
		}

		windowSeconds := m.WindowSeconds
		if windowSeconds <= 0 {
			windowSeconds = 60
		}

		current := now().UTC()
		windowID := current.Unix() / windowSeconds
		key := fmt.Sprintf("ratelimit:%s:%s:%d", m.Resource, subject(request), windowID)

		// One extra second keeps the key alive past the window boundary
		ttl := time.Duration(windowSeconds+1) * time.Second

		count, err := m.Store.Increment(request.Context(), key, ttl)
		if err != nil {
			// A broken counter must not take down the API
			m.Logger.Warning("could not increment rate limit counter", err)
			next.ServeHTTP(writer, request)
			return
		}

		if count > m.MaxRequests {
			retryAfter := (windowID+1)*windowSeconds - current.Unix() + 1
			writer.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			m.ResponseManager.RespondWithError(writer, http.StatusTooManyRequests,
				"Too many requests", errors.New("rate limit exceeded"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// subject prefers the authenticated user and falls back to the caller address
func subject(request *http.Request) string {
	if userID, ok := request.Context().Value(auth.KeyUserID).(string); ok && userID != "" {
		return userID
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}

	return host
}
