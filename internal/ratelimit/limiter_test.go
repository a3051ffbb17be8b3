package ratelimit

import (
	"net/http"
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
	return &mockClock{now: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}
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

func TestAllowPlayerWindow(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, MaxPerPlayer: 3, MaxPerAnonymousIP: 1, Clock: clock})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		if result := limiter.AllowPlayer(7); !result.Allowed {
			t.Fatalf("write %d should be allowed", i+1)
		}
	}

	clock.Advance(20 * time.Second)
	result := limiter.AllowPlayer(7)
	if result.Allowed {
		t.Fatalf("fourth write should be throttled")
	}
	if result.Reason != "player_limit" || result.RetryAfter != 40*time.Second {
		t.Fatalf("unexpected result %+v", result)
	}

	if !limiter.AllowPlayer(8).Allowed {
		t.Fatalf("other players are counted separately")
	}

	clock.Advance(40 * time.Second)
	if !limiter.AllowPlayer(7).Allowed {
		t.Fatalf("expected a new window to allow writes")
	}
}

func TestAllowAddress(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{MaxPerAnonymousIP: 2, Clock: clock})
	defer limiter.Close()

	limiter.AllowAddress("203.0.113.5")
	limiter.AllowAddress("203.0.113.5")
	if result := limiter.AllowAddress(" 203.0.113.5 "); result.Allowed || result.Reason != "ip_limit" {
		t.Fatalf("expected address to be throttled, got %+v", result)
	}
	if !limiter.AllowPlayer(1).Allowed {
		t.Fatalf("player writes use their own counter")
	}
}

func TestCleanupDropsExpiredEntries(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Window: time.Minute, Clock: clock})
	defer limiter.Close()

	limiter.AllowPlayer(1)
	limiter.AllowAddress("198.51.100.1")
	clock.Advance(2 * time.Minute)
	limiter.cleanup()

	limiter.mu.Lock()
	remaining := len(limiter.byKey)
	limiter.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected expired entries removed, got %d", remaining)
	}
}

func TestNewFillsDefaults(t *testing.T) {
	limiter := New(&Config{})
	defer limiter.Close()
	defaults := DefaultConfig()
	if limiter.config.Window != defaults.Window || limiter.config.MaxPerPlayer != defaults.MaxPerPlayer {
		t.Fatalf("unexpected config %+v", limiter.config)
	}

	nilLimiter := New(nil)
	defer nilLimiter.Close()
	if nilLimiter.config.MaxPerAnonymousIP != defaults.MaxPerAnonymousIP {
		t.Fatalf("unexpected config %+v", nilLimiter.config)
	}
}

func TestLimiter_Close(t *testing.T) {
	limiter := New(nil)
	limiter.AllowPlayer(1)

	done := make(chan struct{})
	go func() {
		limiter.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Close() should not hang")
	}
}

func TestConcurrentAccess(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{MaxPerPlayer: 50, Clock: clock})
	defer limiter.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if limiter.AllowPlayer(3).Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	if allowed != 50 {
		t.Fatalf("expected exactly 50 allowed writes, got %d", allowed)
	}
}

func TestGetClientIP_TrustProxy(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{
			name:       "TrustProxy=true, XFF rightmost public IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.50",
		},
		{
			name:       "TrustProxy=true, XFF all private",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "10.0.0.1",
		},
		{
			name:       "TrustProxy=true, X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.51",
		},
		{
			name:       "TrustProxy=false, ignores XFF",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.100",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			got := GetClientIP(r, tt.trustProxy)
			if got != tt.expected {
				t.Fatalf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{ip: "10.1.2.3", expected: true},
		{ip: "172.16.0.1", expected: true},
		{ip: "192.168.10.10", expected: true},
		{ip: "127.0.0.1", expected: true},
		{ip: "::1", expected: true},
		{ip: "::ffff:192.168.1.1", expected: true},
		{ip: "203.0.113.9", expected: false},
		{ip: "not-an-ip", expected: false},
	}
	for _, tt := range tests {
		if got := isPrivateIP(tt.ip); got != tt.expected {
			t.Fatalf("isPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
		}
	}
}
