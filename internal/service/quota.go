package service

import (
	"sync"
	"time"
)

// QuotaTracker counts the unit cost of every upstream API call per service.
// It tracks our own usage against the provider's daily allowance; it never
// blocks calls. Counters reset at UTC midnight, matching Google's quota day.
type QuotaTracker struct {
	mu    sync.Mutex
	day   string
	used  map[string]int
	limit int

	// onRecord mirrors usage into an external counter (Prometheus);
	// set once at wiring time.
	onRecord func(service string, units int)
}

// ServiceQuota is the per-service usage snapshot.
type ServiceQuota struct {
	QuotaUsed      int `json:"quotaUsed"`
	QuotaLimit     int `json:"quotaLimit"`
	QuotaRemaining int `json:"quotaRemaining"`
}

// QuotaStatus is the payload for /api/system/quota/status.
type QuotaStatus struct {
	QuotaUsed      int                     `json:"quotaUsed"`
	QuotaLimit     int                     `json:"quotaLimit"`
	QuotaRemaining int                     `json:"quotaRemaining"`
	ResetTime      string                  `json:"resetTime"`
	Services       map[string]ServiceQuota `json:"services"`
}

// NewQuotaTracker creates a tracker with the given daily unit limit.
func NewQuotaTracker(dailyLimit int) *QuotaTracker {
	return &QuotaTracker{
		day:   utcDay(time.Now()),
		used:  make(map[string]int),
		limit: dailyLimit,
	}
}

// Mirror registers a callback invoked on every Record, outside the lock.
func (q *QuotaTracker) Mirror(fn func(service string, units int)) {
	q.onRecord = fn
}

// Record adds units used by a service, rolling the day over if needed.
func (q *QuotaTracker) Record(service string, units int) {
	q.mu.Lock()
	q.rollover(time.Now())
	q.used[service] += units
	q.mu.Unlock()

	if q.onRecord != nil {
		q.onRecord(service, units)
	}
}

// Status returns the current usage snapshot.
func (q *QuotaTracker) Status() *QuotaStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	q.rollover(now)

	services := make(map[string]ServiceQuota, len(q.used))
	total := 0
	for svc, used := range q.used {
		services[svc] = ServiceQuota{
			QuotaUsed:      used,
			QuotaLimit:     q.limit,
			QuotaRemaining: remaining(q.limit, used),
		}
		total += used
	}

	return &QuotaStatus{
		QuotaUsed:      total,
		QuotaLimit:     q.limit,
		QuotaRemaining: remaining(q.limit, total),
		ResetTime:      nextUTCMidnight(now).Format(time.RFC3339),
		Services:       services,
	}
}

// rollover resets counters when the UTC day changes. Caller holds the lock.
func (q *QuotaTracker) rollover(now time.Time) {
	if day := utcDay(now); day != q.day {
		q.day = day
		q.used = make(map[string]int)
	}
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}

func utcDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func nextUTCMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
