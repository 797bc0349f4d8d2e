package presence

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestOnlineCountWindow(t *testing.T) {
	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		queryAt time.Time
		want    int
	}{
		{name: "at touch time", queryAt: base, want: 1},
		{name: "inside window", queryAt: base.Add(3 * time.Minute), want: 1},
		{name: "just before expiry", queryAt: base.Add(5*time.Minute - time.Nanosecond), want: 1},
		{name: "exactly at expiry", queryAt: base.Add(5 * time.Minute), want: 0},
		{name: "past expiry", queryAt: base.Add(10 * time.Minute), want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := New(5 * time.Minute)
			tr.Touch("abc", base)
			if got := tr.OnlineCount(tc.queryAt); got != tc.want {
				t.Fatalf("OnlineCount(%v) = %d, want %d", tc.queryAt, got, tc.want)
			}
		})
	}
}

func TestTouchRefreshesWindow(t *testing.T) {
	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	tr := New(5 * time.Minute)

	tr.Touch("abc", base)
	tr.Touch("abc", base.Add(4*time.Minute))

	if got := tr.OnlineCount(base.Add(8 * time.Minute)); got != 1 {
		t.Fatalf("OnlineCount after refresh = %d, want 1", got)
	}
	if got := tr.OnlineCount(base.Add(9 * time.Minute)); got != 0 {
		t.Fatalf("OnlineCount after refreshed window elapsed = %d, want 0", got)
	}
}

func TestOnlineCountDropsExpiredEntries(t *testing.T) {
	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	tr := New(5 * time.Minute)

	for i := 0; i < 10; i++ {
		tr.Touch(fmt.Sprintf("stale-%d", i), base)
	}
	tr.Touch("fresh", base.Add(7*time.Minute))

	if got := tr.OnlineCount(base.Add(8 * time.Minute)); got != 1 {
		t.Fatalf("OnlineCount = %d, want 1", got)
	}
	if got := tr.Size(); got != 1 {
		t.Fatalf("Size after lazy expiry = %d, want 1", got)
	}
}

func TestSweep(t *testing.T) {
	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	tr := New(5 * time.Minute)

	tr.Touch("old", base)
	tr.Touch("recent", base.Add(4*time.Minute))

	removed := tr.Sweep(base.Add(6 * time.Minute))
	if removed != 1 {
		t.Fatalf("Sweep removed %d entries, want 1", removed)
	}
	if got := tr.Size(); got != 1 {
		t.Fatalf("Size after sweep = %d, want 1", got)
	}
	if got := tr.OnlineCount(base.Add(6 * time.Minute)); got != 1 {
		t.Fatalf("OnlineCount after sweep = %d, want 1", got)
	}
}

func TestDefaultWindow(t *testing.T) {
	if got := New(0).Window(); got != DefaultWindow {
		t.Fatalf("Window() = %v, want %v", got, DefaultWindow)
	}
	if got := New(-time.Minute).Window(); got != DefaultWindow {
		t.Fatalf("Window() = %v, want %v", got, DefaultWindow)
	}
}

func TestConcurrentTouchAndCount(t *testing.T) {
	tr := New(5 * time.Minute)
	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				tr.Touch(fmt.Sprintf("visitor-%d-%d", g, i), base.Add(time.Duration(i)*time.Second))
				tr.OnlineCount(base.Add(time.Duration(i) * time.Second))
				if i%50 == 0 {
					tr.Sweep(base.Add(time.Duration(i) * time.Second))
				}
			}
		}(g)
	}
	wg.Wait()

	// Every touch in the final minute is still inside the window.
	if got := tr.OnlineCount(base.Add(200 * time.Second)); got == 0 {
		t.Fatal("OnlineCount = 0 after concurrent touches, want > 0")
	}
}
