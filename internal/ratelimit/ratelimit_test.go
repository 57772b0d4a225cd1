package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterConsumesBurst(t *testing.T) {
	l := New(3, 0.001)

	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if l.Allow() {
		t.Error("request beyond burst should be rejected")
	}
}

func TestLimiterRefills(t *testing.T) {
	l := New(1, 1000) // effectively instant refill

	if !l.Allow() {
		t.Fatal("first request should be allowed")
	}
	time.Sleep(10 * time.Millisecond)
	if !l.Allow() {
		t.Error("request after refill should be allowed")
	}
}

func TestLimiterTokensCapped(t *testing.T) {
	l := New(2, 1000)
	time.Sleep(10 * time.Millisecond)

	if tokens := l.Tokens(); tokens > 2 {
		t.Errorf("tokens = %f, want at most burst 2", tokens)
	}
}

func TestKeyedLimiterIsolatesKeys(t *testing.T) {
	kl := NewKeyedLimiter(KeyedConfig{Name: "chat", Burst: 1, RefillRate: 0.001})
	defer kl.Stop()

	if !kl.Allow("user-a") {
		t.Fatal("first request for user-a should be allowed")
	}
	if kl.Allow("user-a") {
		t.Error("second request for user-a should be rejected")
	}
	if !kl.Allow("user-b") {
		t.Error("user-b has an independent bucket")
	}
}

func TestKeyedLimiterEmptyKey(t *testing.T) {
	kl := NewKeyedLimiter(KeyedConfig{Name: "chat", Burst: 1, RefillRate: 0.001})
	defer kl.Stop()

	for i := 0; i < 5; i++ {
		if !kl.Allow("") {
			t.Fatal("empty key must never be limited")
		}
	}
}

func TestKeyedLimiterCleanup(t *testing.T) {
	kl := NewKeyedLimiter(KeyedConfig{Name: "chat", Burst: 1, RefillRate: 0.001, CleanupPeriod: time.Hour})
	defer kl.Stop()

	kl.Allow("user-a")
	kl.Allow("user-b")
	if got := kl.ActiveKeys(); got != 2 {
		t.Fatalf("ActiveKeys = %d, want 2", got)
	}

	// Age the entries past the eviction cutoff, then run cleanup directly.
	kl.mu.Lock()
	for _, entry := range kl.entries {
		entry.lastSeen = time.Now().Add(-3 * time.Hour)
	}
	kl.mu.Unlock()

	kl.cleanup()
	if got := kl.ActiveKeys(); got != 0 {
		t.Errorf("ActiveKeys after cleanup = %d, want 0", got)
	}
}
