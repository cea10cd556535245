package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestSlidingWindowAdmitsUpToLimit(t *testing.T) {
	lim := NewSlidingWindow(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !lim.TryConsume() {
			t.Fatalf("call %d rejected, want admitted", i+1)
		}
	}

	if lim.TryConsume() {
		t.Fatal("call 4 admitted, want rejected")
	}
}

func TestSlidingWindowExpiresOldAdmissions(t *testing.T) {
	clock := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	lim := NewSlidingWindow(2, time.Minute)
	lim.now = func() time.Time { return clock }

	if !lim.TryConsume() || !lim.TryConsume() {
		t.Fatal("first two calls should be admitted")
	}
	if lim.TryConsume() {
		t.Fatal("third call within window should be rejected")
	}

	// 30s later the window is still full.
	clock = clock.Add(30 * time.Second)
	if lim.TryConsume() {
		t.Fatal("call at +30s should be rejected")
	}

	// 61s after the first admissions both have aged out.
	clock = clock.Add(31 * time.Second)
	if !lim.TryConsume() {
		t.Fatal("call at +61s should be admitted")
	}
}

func TestSlidingWindowRejectionsNotRecorded(t *testing.T) {
	clock := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	lim := NewSlidingWindow(1, time.Minute)
	lim.now = func() time.Time { return clock }

	if !lim.TryConsume() {
		t.Fatal("first call should be admitted")
	}

	// A burst of rejected attempts must not extend the penalty window.
	for i := 0; i < 10; i++ {
		clock = clock.Add(5 * time.Second)
		if lim.TryConsume() {
			t.Fatalf("attempt at +%ds should be rejected", (i+1)*5)
		}
	}

	clock = clock.Add(15 * time.Second) // 65s after the single admission
	if !lim.TryConsume() {
		t.Fatal("call after the admission aged out should be admitted")
	}
}

func TestSlidingWindowConcurrentAccess(t *testing.T) {
	lim := NewSlidingWindow(50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if lim.TryConsume() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 50 {
		t.Fatalf("admitted = %d, want exactly 50", admitted)
	}
}
