package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_BurstThenExhaust(t *testing.T) {
	l := New(1, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if l.Allow() {
		t.Error("request beyond burst should be rejected")
	}
}

func TestLimiter_Refill(t *testing.T) {
	l := New(50, 1)
	if !l.Allow() {
		t.Fatal("first request should be allowed")
	}
	if l.Allow() {
		t.Fatal("bucket should be empty")
	}
	time.Sleep(40 * time.Millisecond) // 50/s refills one token in 20ms
	if !l.Allow() {
		t.Error("bucket should have refilled")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	l := New(2, 0)
	if !l.Allow() || !l.Allow() {
		t.Error("burst should default to rate")
	}
	if l.Allow() {
		t.Error("third request should exceed default burst")
	}
}

func TestStore_PerKeyIsolation(t *testing.T) {
	s := NewStore(1, 1)
	if !s.Allow("request.received") {
		t.Fatal("first run for key should be allowed")
	}
	if s.Allow("request.received") {
		t.Error("second run for same key should be rejected")
	}
	if !s.Allow("response.ready") {
		t.Error("different key should have its own bucket")
	}
}
