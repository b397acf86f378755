//go:build !dev

// Package trace records runtime/trace tasks for docstring generation in
// builds tagged dev. Without the tag every call is a no-op.
package trace

import "context"

// EnvVar names the file the trace is written to in dev builds
const EnvVar = "DOXIDE_TRACE"

func Init() func() { return func() {} }

func Task(ctx context.Context, _ string) (context.Context, func()) { return ctx, func() {} }

func Region(_ context.Context, _ string) func() { return func() {} }

func Log(_ context.Context, _, _ string) {}

func IsEnabled() bool { return false }
