// Package catalog implements the Catalog/Signature Store contract: a
// small key-value interface over a document-oriented backing store,
// keyed by file name. Grounded on
// original_source/agent/src/storage/signature_handler.rs's
// save_signature/load_signature_with_leaves, reworked from a MongoDB
// collection into the small interface spec.md §4.4 requires — the core
// depends only on Store, never on a concrete backend.
package catalog

import (
	"context"
	"errors"

	"github.com/neotoxic-off/glacier/internal/signature"
)

// ErrAlreadyExists is returned by Save when a record for the same file
// name has already been persisted. Duplicate enrollment is a caller
// error, not a store-layer retry condition.
var ErrAlreadyExists = errors.New("catalog: record already exists")

// ErrNotFound is returned by Load when no record exists for a file
// name. Most callers should treat this as "not yet enrolled" rather
// than an error — Store.Load returns it as a sentinel so the
// orchestrator can distinguish "absent" from a genuine backend failure.
var ErrNotFound = errors.New("catalog: record not found")

// Store is the capability set the Signature Engine's callers depend on.
// The production backing is an embedded bolt database (BoltStore); test
// callers may use the in-memory MapStore. Both calls may suspend on
// backend I/O, so they take a context.Context the way the teacher
// threads context through its manager/service layer.
type Store interface {
	// Save persists a new record. It returns ErrAlreadyExists if a
	// record for record.FileName is already present.
	Save(ctx context.Context, record signature.Record) error

	// Load returns the record for fileName, or ErrNotFound if absent.
	Load(ctx context.Context, fileName string) (signature.Record, error)

	// Close releases any resources held by the store.
	Close() error
}
