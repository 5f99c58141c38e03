// Package blob stores uploaded case media: reference photos and CCTV footage
// handed to the recognition backend.
package blob

import (
	"context"
	"io"
)

// Store persists uploaded objects and yields a URL the rest of the system can
// hand out.
type Store interface {
	// Put stores the object under the key in the named bucket and returns
	// its public URL.
	Put(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error)
}
