// Package timing measures where docstring generation spends its time.
package timing

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer accumulates durations per stage. It is safe for concurrent use, so
// parallel generations can report into one timer.
type Timer struct {
	mu     sync.Mutex
	start  time.Time
	stages map[string]time.Duration
	counts map[string]int
	order  []string // Track order of stages for consistent output
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{
		start:  time.Now(),
		stages: make(map[string]time.Duration),
		counts: make(map[string]int),
	}
}

// Add records d against label
func (t *Timer) Add(label string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.stages[label]; !ok {
		t.order = append(t.order, label)
	}
	t.stages[label] += d
	t.counts[label]++
}

// Track starts measuring label and returns the function that stops it
func (t *Timer) Track(label string) func() {
	begin := time.Now()
	return func() {
		t.Add(label, time.Since(begin))
	}
}

// Elapsed returns total elapsed time since timer creation
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.start)
}

// Get returns the accumulated duration and sample count of a stage
func (t *Timer) Get(label string) (time.Duration, int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.stages[label]
	return d, t.counts[label], ok
}

// Summary returns a formatted summary of all timings
func (t *Timer) Summary() string {
	total := t.Elapsed()

	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Total: %.3fms", ms(total))
	if len(t.order) > 0 {
		b.WriteString(" (")
		for i, label := range t.order {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %.3fms", label, ms(t.stages[label]))
			if n := t.counts[label]; n > 1 {
				fmt.Fprintf(&b, " x%d", n)
			}
		}
		b.WriteString(")")
	}
	return b.String()
}

// Reset resets the timer
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.start = time.Now()
	t.stages = make(map[string]time.Duration)
	t.counts = make(map[string]int)
	t.order = nil
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
