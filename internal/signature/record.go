// Package signature implements the Signature Engine: producing and
// verifying a (root, leaf-hashes, boundaries) triple for a file, and
// localizing which chunks changed when a mismatch is found. Grounded
// on original_source/agent/src/storage/signature_handler.rs
// (generate_signature_with_leaves, check_broken_chunks).
package signature

import "time"

// Record is the persisted, per-file signature (spec.md §3). It is
// created once per file name and is read-only thereafter within the
// scope of this package.
type Record struct {
	FileName       string    `json:"file_name"`
	Root           string    `json:"signature"`       // hex, 64 chars
	Leaves         []string  `json:"leaves"`           // hex, 64 chars each
	ChunkPositions []int     `json:"chunk_positions"`  // len(Leaves)+1
	ScannedAt      time.Time `json:"scanned_at"`       // bookkeeping only; not part of any invariant
}
