package storage

import "context"

// Local is the Publisher for plain local runs: segments already live
// at their final path on disk, so publishing is a no-op.
type Local struct{}

// NewLocal creates a Local publisher.
func NewLocal() *Local {
	return &Local{}
}

// Publish implements Publisher and does nothing.
func (*Local) Publish(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

var _ Publisher = (*Local)(nil)
