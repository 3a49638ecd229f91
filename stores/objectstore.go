// Package stores provides the durable storage collaborator the tree core
// requires of its hosting environment: tree state persisted by tree
// identity, and insert serialization so no two commits ever observe the
// same pre-state. The storage medium hides behind small object interfaces
// so blob backed implementations can drop in beside the directory one.
package stores

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("stores: object not found")

type ObjectReader interface {
	// ReadObject returns the content of the named object, or
	// ErrObjectNotFound if it has never been written.
	ReadObject(ctx context.Context, name string) ([]byte, error)
}

type ObjectWriter interface {
	// WriteObject replaces the named object's content. The replacement must
	// be atomic: a concurrent reader sees the old content or the new,
	// never a torn write.
	WriteObject(ctx context.Context, name string, data []byte) error
}

type ObjectReaderWriter interface {
	ObjectReader
	ObjectWriter
}
