package ratelimit

import (
	"sync"
	"time"
)

// pruneThreshold is the number of tracked clients above which idle ones are dropped
const pruneThreshold = 1024

// RateLimiter tracks and enforces request rate limits per client key.
// A limit of zero disables that window.
type RateLimiter struct {
	requestsPerMinute int
	requestsPerHour   int
	requestsPerDay    int
	enabled           bool

	clients map[string]*window
	now     func() time.Time
	mu      sync.Mutex
}

// window holds the request times of one client
type window struct {
	minute []time.Time
	hour   []time.Time
	day    []time.Time
}

// NewRateLimiter creates a new rate limiter with the given limits
func NewRateLimiter(requestsPerMinute, requestsPerHour, requestsPerDay int, enabled bool) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		requestsPerDay:    requestsPerDay,
		enabled:           enabled,
		clients:           make(map[string]*window),
		now:               time.Now,
	}
}

// AllowRequest checks if a request from key is allowed based on rate limits
// Returns true if allowed, false if rate limit exceeded
func (rl *RateLimiter) AllowRequest(key string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.clients) > pruneThreshold {
		rl.prune(now)
	}

	w, ok := rl.clients[key]
	if !ok {
		w = &window{}
		rl.clients[key] = w
	}
	w.cleanup(now)

	// Check limits
	if rl.requestsPerMinute > 0 && len(w.minute) >= rl.requestsPerMinute {
		return false
	}
	if rl.requestsPerHour > 0 && len(w.hour) >= rl.requestsPerHour {
		return false
	}
	if rl.requestsPerDay > 0 && len(w.day) >= rl.requestsPerDay {
		return false
	}

	// Record the request
	w.minute = append(w.minute, now)
	w.hour = append(w.hour, now)
	w.day = append(w.day, now)

	return true
}

// cleanup removes expired entries from the time windows
func (w *window) cleanup(now time.Time) {
	w.minute = filterTimes(w.minute, now.Add(-1*time.Minute))
	w.hour = filterTimes(w.hour, now.Add(-1*time.Hour))
	w.day = filterTimes(w.day, now.Add(-24*time.Hour))
}

// prune drops clients without requests in the last day
func (rl *RateLimiter) prune(now time.Time) {
	for key, w := range rl.clients {
		w.cleanup(now)
		if len(w.day) == 0 {
			delete(rl.clients, key)
		}
	}
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// GetStats returns current rate limiter statistics for key
func (rl *RateLimiter) GetStats(key string) Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[key]
	if !ok {
		w = &window{}
	}
	w.cleanup(rl.now())

	return Stats{
		Enabled:             true,
		TrackedClients:      len(rl.clients),
		RequestsLastMinute:  len(w.minute),
		RequestsLastHour:    len(w.hour),
		RequestsLastDay:     len(w.day),
		LimitPerMinute:      rl.requestsPerMinute,
		LimitPerHour:        rl.requestsPerHour,
		LimitPerDay:         rl.requestsPerDay,
		RemainingThisMinute: remaining(rl.requestsPerMinute, len(w.minute)),
		RemainingThisHour:   remaining(rl.requestsPerHour, len(w.hour)),
		RemainingThisDay:    remaining(rl.requestsPerDay, len(w.day)),
	}
}

// remaining reports -1 for an unlimited window
func remaining(limit, used int) int {
	if limit <= 0 {
		return -1
	}
	return max(0, limit-used)
}

// Stats contains rate limiter statistics
type Stats struct {
	Enabled             bool `json:"enabled"`
	TrackedClients      int  `json:"tracked_clients"`
	RequestsLastMinute  int  `json:"requests_last_minute"`
	RequestsLastHour    int  `json:"requests_last_hour"`
	RequestsLastDay     int  `json:"requests_last_day"`
	LimitPerMinute      int  `json:"limit_per_minute"`
	LimitPerHour        int  `json:"limit_per_hour"`
	LimitPerDay         int  `json:"limit_per_day"`
	RemainingThisMinute int  `json:"remaining_this_minute"`
	RemainingThisHour   int  `json:"remaining_this_hour"`
	RemainingThisDay    int  `json:"remaining_this_day"`
}

// Reset clears all tracked requests (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.clients = make(map[string]*window)
}
