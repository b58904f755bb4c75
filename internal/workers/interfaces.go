// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the long-lived parts of the client process side by
// side: the terminal UI, the session watcher and similar loops.
package workers

import "context"

// Worker is a blocking unit of background work.
//
// Run must return when ctx is cancelled. A nil error means the worker
// finished its job.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// Func adapts a plain function to [Worker].
type Func func(ctx context.Context) error

// Run calls f(ctx).
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}
