// Package storage provides publishing of finished segments. It defines
// the Publisher port and implementations for local-only runs and for
// uploading segments to S3.
package storage

import "context"

// Publisher delivers a written segment file to its final destination.
type Publisher interface {
	// Publish delivers the file at path under the given key and
	// returns the resulting URL, or an empty string when publishing
	// is a local no-op.
	Publish(ctx context.Context, path, key string) (url string, err error)
}
