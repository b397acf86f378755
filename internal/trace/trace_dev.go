//go:build dev

// Package trace records runtime/trace tasks for docstring generation in
// builds tagged dev. Each generated docstring is a task; symbol detection
// and completion calls are regions inside it.
//
//	go build -tags dev ./cmd/doxide
//	DOXIDE_TRACE=doxide.trace doxide generate --all main.py
//	go tool trace doxide.trace
package trace

import (
	"context"
	"fmt"
	"os"
	"runtime/trace"
	"sync"
	"sync/atomic"
)

// EnvVar names the file the trace is written to
const EnvVar = "DOXIDE_TRACE"

var (
	mu     sync.Mutex
	out    *os.File
	active atomic.Bool
)

// Init starts tracing to $DOXIDE_TRACE and returns the function that
// flushes it. Failures are reported on stderr and leave tracing off.
func Init() func() {
	path := os.Getenv(EnvVar)
	if path == "" {
		return func() {}
	}

	mu.Lock()
	defer mu.Unlock()
	if active.Load() {
		return func() {}
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "doxide: trace disabled: %v\n", err)
		return func() {}
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		fmt.Fprintf(os.Stderr, "doxide: trace disabled: %v\n", err)
		return func() {}
	}
	out = f
	active.Store(true)

	return stop
}

func stop() {
	mu.Lock()
	defer mu.Unlock()
	if !active.Swap(false) {
		return
	}
	trace.Stop()
	_ = out.Close()
	out = nil
}

// Task groups the work for one docstring
func Task(ctx context.Context, name string) (context.Context, func()) {
	if !active.Load() {
		return ctx, func() {}
	}
	ctx, task := trace.NewTask(ctx, name)
	return ctx, task.End
}

// Region marks a phase such as "symbols" or "completion"
func Region(ctx context.Context, name string) func() {
	if !active.Load() {
		return func() {}
	}
	return trace.StartRegion(ctx, name).End
}

// Log annotates the current task, for instance with the symbol name
func Log(ctx context.Context, category, message string) {
	if active.Load() {
		trace.Log(ctx, category, message)
	}
}

// IsEnabled reports whether a trace is being recorded
func IsEnabled() bool {
	return active.Load()
}
