package search_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/weekwise/weekwise/search"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := search.NewDebouncer(50 * time.Millisecond)

	var fired atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 3; i++ {
		n := int32(i)
		d.Do(func() {
			fired.Add(1)
			last.Store(n)
		})
	}

	time.Sleep(200 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
	if got := last.Load(); got != 3 {
		t.Errorf("last call executed was %d, want the most recent (3)", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := search.NewDebouncer(50 * time.Millisecond)

	var fired atomic.Int32
	d.Do(func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("cancelled call still fired %d times", got)
	}
}
