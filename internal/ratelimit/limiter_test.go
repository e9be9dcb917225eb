package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWaitEnforcesMinimumInterval(t *testing.T) {
	// 20 req/s = 50ms minimum interval.
	l := New(20)
	ctx := context.Background()

	if err := l.Wait(ctx, "example.com"); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	start := time.Now()
	if err := l.Wait(ctx, "example.com"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("expected ~50ms between returns, got %v", elapsed)
	}
}

func TestDifferentDomainsDoNotBlockEachOther(t *testing.T) {
	// 1 req/s would force a full second between same-domain calls.
	l := New(1)
	ctx := context.Background()

	if err := l.Wait(ctx, "a.example.com"); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := l.Wait(ctx, "b.example.com"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("second domain blocked for %v", elapsed)
	}
}

func TestConcurrentWaitersShareOneDomainEntry(t *testing.T) {
	l := New(100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Wait(ctx, "Example.COM"); err != nil {
				t.Errorf("wait: %v", err)
			}
		}()
	}
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.limiters) != 1 {
		t.Fatalf("expected one limiter entry, got %d", len(l.limiters))
	}
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	l := New(0.001) // effectively never refills
	ctx := context.Background()
	if err := l.Wait(ctx, "slow.example.com"); err != nil {
		t.Fatal(err)
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(cancelCtx, "slow.example.com"); err == nil {
		t.Fatal("expected context cancellation error")
	}
}
