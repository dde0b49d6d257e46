// Package storage persists benchmark and ingestion artifacts (result CSVs,
// stats JSON, id mappings) behind a backend-agnostic interface.
package storage

import "context"

// BlobStore is the artifact persistence contract.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
