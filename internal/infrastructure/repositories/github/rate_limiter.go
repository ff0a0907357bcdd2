package github

import (
	"net/http"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"
)

const (
	callWindow        = time.Minute
	maxCallsPerWindow = 50
	checkEveryCalls   = 10
	minRemaining      = 10
	resetMargin       = time.Second

	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

// RateLimiter keeps a client below the REST API limits. It counts calls in
// a sliding one-minute window and honors the remaining-quota headers of
// every response. It belongs to exactly one client and is not safe for
// concurrent use.
type RateLimiter struct {
	now         func() time.Time
	sleep       func(time.Duration)
	calls       int
	windowStart time.Time
}

// NewRateLimiter creates a RateLimiter reading time from now and waiting with sleep.
func NewRateLimiter(now func() time.Time, sleep func(time.Duration)) *RateLimiter {
	return &RateLimiter{now: now, sleep: sleep, windowStart: now()}
}

// BeforeCall counts a call and, every tenth call, sleeps out the rest of
// the window when more than fifty calls were made within it.
func (l *RateLimiter) BeforeCall() {
	l.calls++
	if l.calls%checkEveryCalls != 0 {
		return
	}

	elapsed := l.now().Sub(l.windowStart)
	if elapsed < callWindow && l.calls > maxCallsPerWindow {
		wait := callWindow - elapsed + resetMargin
		logger.Infof("[github] Rate limiting: sleeping %.1fs", wait.Seconds())
		l.sleep(wait)
		l.windowStart = l.now()
		l.calls = 0
	}
}

// Observe sleeps until the quota resets when a response reports fewer than
// ten remaining calls.
func (l *RateLimiter) Observe(resp *http.Response) {
	if resp == nil {
		return
	}
	rawRemaining := resp.Header.Get(headerRateRemaining)
	if rawRemaining == "" {
		return
	}
	remaining, err := strconv.Atoi(rawRemaining)
	if err != nil || remaining >= minRemaining {
		return
	}

	resetEpoch, _ := strconv.ParseInt(resp.Header.Get(headerRateReset), 10, 64)
	wait := time.Unix(resetEpoch, 0).Sub(l.now()) + resetMargin
	if wait <= 0 {
		return
	}
	logger.Infof("[github] Rate limit protection: sleeping %.1fs", wait.Seconds())
	l.sleep(wait)
}
