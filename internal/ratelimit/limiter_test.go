package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(clock Clock) *Limiter {
	return New(&Config{
		MaxAttempts:  3,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 10,
		Clock:        clock,
	})
}

func TestCheckLogin_LockoutAfterMaxAttempts(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock)
	defer limiter.Close()

	ip := "192.168.1.1"

	result := limiter.CheckLogin(ip)
	if !result.Allowed {
		t.Fatalf("fresh IP should be allowed, got blocked: %s", result.Reason)
	}

	limiter.RecordFailure(ip)
	limiter.RecordFailure(ip)
	if locked := limiter.RecordFailure(ip); !locked {
		t.Error("third failure should trigger lockout")
	}

	result = limiter.CheckLogin(ip)
	if result.Allowed {
		t.Fatal("locked-out IP should be blocked")
	}
	if result.Reason != "lockout" {
		t.Errorf("expected reason 'lockout', got '%s'", result.Reason)
	}
	if result.RetryAfter != 5*time.Minute {
		t.Errorf("expected RetryAfter 5m, got %v", result.RetryAfter)
	}
}

func TestCheckLogin_LockoutExpires(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock)
	defer limiter.Close()

	ip := "192.168.1.2"
	for i := 0; i < 3; i++ {
		limiter.RecordFailure(ip)
	}

	clock.Advance(3 * time.Minute)
	result := limiter.CheckLogin(ip)
	if result.Allowed {
		t.Fatal("should still be locked out after 3 minutes")
	}
	if result.RetryAfter != 2*time.Minute {
		t.Errorf("expected RetryAfter 2m, got %v", result.RetryAfter)
	}

	clock.Advance(2 * time.Minute)
	result = limiter.CheckLogin(ip)
	if !result.Allowed {
		t.Errorf("lockout should have expired, got blocked: %s", result.Reason)
	}
}

func TestResetAttemptsClearsCounter(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock)
	defer limiter.Close()

	ip := "192.168.1.3"
	limiter.RecordFailure(ip)
	limiter.RecordFailure(ip)
	limiter.ResetAttempts(ip)

	// Two more failures should not lock out a reset counter.
	limiter.RecordFailure(ip)
	if locked := limiter.RecordFailure(ip); locked {
		t.Error("reset counter should not lock out after two failures")
	}
	if result := limiter.CheckLogin(ip); !result.Allowed {
		t.Errorf("expected allowed after reset, got blocked: %s", result.Reason)
	}
}

func TestCheckLogin_IndependentIPs(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock)
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		limiter.RecordFailure("10.0.0.1")
	}

	if result := limiter.CheckLogin("10.0.0.1"); result.Allowed {
		t.Error("locked IP should be blocked")
	}
	if result := limiter.CheckLogin("10.0.0.2"); !result.Allowed {
		t.Errorf("other IP should be unaffected, got blocked: %s", result.Reason)
	}
}

func TestCleanupRemovesExpiredEntries(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock)
	defer limiter.Close()

	limiter.RecordFailure("10.0.0.5")
	clock.Advance(2 * time.Hour)
	limiter.cleanup()

	limiter.mu.RLock()
	size := len(limiter.byIP)
	limiter.mu.RUnlock()
	if size != 0 {
		t.Errorf("expected expired entries to be removed, %d remain", size)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	r.RemoteAddr = "203.0.113.9:54321"
	if ip := ClientIP(r); ip != "203.0.113.9" {
		t.Errorf("expected RemoteAddr host, got %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.9")
	if ip := ClientIP(r); ip != "198.51.100.7" {
		t.Errorf("expected first forwarded hop, got %q", ip)
	}
}
