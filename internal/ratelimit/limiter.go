// Package ratelimit throttles state-changing API calls per player and per
// client address.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Config struct {
	Window            time.Duration // Length of the counting window (default: 1m)
	MaxPerPlayer      int           // Writes per player per window (default: 60)
	MaxPerAnonymousIP int           // Writes per client address without a session (default: 20)

	// Clock for testing (nil uses real time)
	Clock Clock
}

func DefaultConfig() *Config {
	return &Config{
		Window:            time.Minute,
		MaxPerPlayer:      60,
		MaxPerAnonymousIP: 20,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// entry counts requests in the current window.
type entry struct {
	count   int
	firstAt time.Time
}

// Limiter is a fixed-window counter keyed by player or client address.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.Mutex
	byKey  map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

func New(cfg *Config) *Limiter {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.Window <= 0 {
		cfg.Window = defaults.Window
	}
	if cfg.MaxPerPlayer <= 0 {
		cfg.MaxPerPlayer = defaults.MaxPerPlayer
	}
	if cfg.MaxPerAnonymousIP <= 0 {
		cfg.MaxPerAnonymousIP = defaults.MaxPerAnonymousIP
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		byKey:         make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// AllowPlayer records a write by an authenticated player.
func (l *Limiter) AllowPlayer(playerID int64) LimitResult {
	return l.allow("player:"+strconv.FormatInt(playerID, 10), l.config.MaxPerPlayer, "player_limit")
}

// AllowAddress records a write from a client without a session.
func (l *Limiter) AllowAddress(ip string) LimitResult {
	return l.allow("ip:"+strings.TrimSpace(ip), l.config.MaxPerAnonymousIP, "ip_limit")
}

func (l *Limiter) allow(key string, max int, reason string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.byKey[key]
	if e == nil || now.Sub(e.firstAt) >= l.config.Window {
		l.byKey[key] = &entry{count: 1, firstAt: now}
		return LimitResult{Allowed: true}
	}
	if e.count >= max {
		return LimitResult{
			Allowed:    false,
			RetryAfter: l.config.Window - now.Sub(e.firstAt),
			Reason:     reason,
		}
	}
	e.count++
	return LimitResult{Allowed: true}
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.byKey {
		if now.Sub(e.firstAt) >= l.config.Window {
			delete(l.byKey, k)
		}
	}
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost IP from X-Forwarded-For (added by your proxy).
// When trustProxy is false, ignores X-Forwarded-For entirely (prevents spoofing).
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			return strings.TrimSpace(parts[len(parts)-1])
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	// RemoteAddr may lack a port (unix sockets, tests).
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

var privateNetworks []*net.IPNet

func init() {
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	}
	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// isPrivateIP handles IPv4-mapped IPv6 addresses as IPv4.
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func LogRateLimitExceeded(ctx context.Context, key, reason string, retryAfter time.Duration) {
	log.Ctx(ctx).Warn().
		Str("event", "rate_limit_exceeded").
		Str("key", key).
		Str("reason", reason).
		Dur("retry_after", retryAfter).
		Msg("Write rate limit exceeded")
}
