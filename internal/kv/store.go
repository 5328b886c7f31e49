// Package kv provides the key-value persistence layer. Each key holds one
// JSON document (a whole record collection, or a small setting).
package kv

import (
	"context"
	"errors"
)

// Well-known keys for the persisted application state.
const (
	KeySales    = "sales"
	KeyExpenses = "expenses"
	KeyVendors  = "vendors"
	KeyView     = "view"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is the persistence port: get/set of whole JSON documents by key.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Keys returns the well-known keys in a stable order, for backups.
func Keys() []string {
	return []string{KeySales, KeyExpenses, KeyVendors, KeyView}
}
