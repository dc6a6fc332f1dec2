// Package framework provides the process plumbing shared by the rmlink
// binaries: named background runners and the wire message abstraction.
package framework

import "context"

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message defines an abstract message exchanged with remote peers.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}
