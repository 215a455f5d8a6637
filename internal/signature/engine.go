package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/neotoxic-off/glacier/internal/chunker"
	"github.com/neotoxic-off/glacier/internal/merkle"
)

// ErrEmptyFile is returned when enrolling or verifying a zero-length file.
var ErrEmptyFile = errors.New("signature: file is empty")

// ErrMalformedSignature is returned when a stored root or leaf hash is
// not valid hex or not 32 bytes decoded.
var ErrMalformedSignature = errors.New("signature: malformed stored signature")

// GenerateWithLeaves reads filePath fully, chunks it with content-defined
// chunking, and returns the hex-encoded root, the ordered hex-encoded
// leaf hashes, and the chunk boundary offsets. An empty file is
// rejected; callers must not persist a Record built from an error
// return.
func GenerateWithLeaves(filePath string) (rootHex string, leavesHex []string, boundaries []int, err error) {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, nil, fmt.Errorf("signature: failed to read %s: %w", filePath, err)
	}
	if len(buf) == 0 {
		return "", nil, nil, ErrEmptyFile
	}

	chunks, bounds, err := chunker.Split(buf)
	if err != nil {
		return "", nil, nil, fmt.Errorf("signature: chunking failed: %w", err)
	}

	leaves := make([][merkle.Size]byte, len(chunks))
	leavesHex = make([]string, len(chunks))
	for i, c := range chunks {
		leaves[i] = merkle.LeafHash(c.Bytes(buf))
		leavesHex[i] = hex.EncodeToString(leaves[i][:])
	}

	root, err := merkle.Root(leaves)
	if err != nil {
		return "", nil, nil, fmt.Errorf("signature: merkle root failed: %w", err)
	}

	return hex.EncodeToString(root[:]), leavesHex, bounds, nil
}

// CheckBrokenChunks re-chunks filePath — using the stored chunkPositions
// when provided, or fresh CDC otherwise — recomputes leaf hashes and the
// Merkle root, and compares against the stored root. A nil, non-error
// slice means the file is intact. A non-nil, non-error slice is the
// ordered set of corrupted chunk indices.
//
// Stored chunkPositions are reconciled against the file's current length
// by chunker.ChunksFromBoundaries: bytes appended past the last stored
// boundary surface as extra trailing leaves, and a file shrunk below a
// stored boundary is clamped rather than causing an out-of-range slice.
func CheckBrokenChunks(filePath, rootHex string, leavesHex []string, chunkPositions []int) (corrupted []int, ambiguous bool, err error) {
	originalRoot, err := decodeDigest(rootHex)
	if err != nil {
		return nil, false, fmt.Errorf("%w: root: %v", ErrMalformedSignature, err)
	}

	originalLeaves := make([][merkle.Size]byte, len(leavesHex))
	for i, h := range leavesHex {
		leaf, err := decodeDigest(h)
		if err != nil {
			return nil, false, fmt.Errorf("%w: leaf %d: %v", ErrMalformedSignature, i, err)
		}
		originalLeaves[i] = leaf
	}

	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false, fmt.Errorf("signature: failed to read %s: %w", filePath, err)
	}
	if len(buf) == 0 {
		return nil, false, ErrEmptyFile
	}

	var chunks []chunker.Chunk
	if chunkPositions != nil {
		chunks = chunker.ChunksFromBoundaries(buf, chunkPositions)
	} else {
		chunks, _, err = chunker.Split(buf)
		if err != nil {
			return nil, false, fmt.Errorf("signature: chunking failed: %w", err)
		}
	}

	currentLeaves := make([][merkle.Size]byte, len(chunks))
	for i, c := range chunks {
		currentLeaves[i] = merkle.LeafHash(c.Bytes(buf))
	}

	currentRoot, err := merkle.Root(currentLeaves)
	if err != nil {
		return nil, false, fmt.Errorf("signature: merkle root failed: %w", err)
	}

	if currentRoot == originalRoot {
		return nil, false, nil
	}

	corrupted = diffLeaves(currentLeaves, originalLeaves)
	if len(corrupted) == 0 {
		// Pathological: root mismatched but every leaf matched, which
		// means the stored root is not the Merkle root of the stored
		// leaves. Fall back to the full range.
		corrupted = make([]int, len(originalLeaves))
		for i := range corrupted {
			corrupted[i] = i
		}
		ambiguous = true
	}

	return corrupted, ambiguous, nil
}

func diffLeaves(current, original [][merkle.Size]byte) []int {
	var corrupted []int

	minLen := len(current)
	if len(original) < minLen {
		minLen = len(original)
	}
	for i := 0; i < minLen; i++ {
		if current[i] != original[i] {
			corrupted = append(corrupted, i)
		}
	}

	if len(current) > len(original) {
		for i := len(original); i < len(current); i++ {
			corrupted = append(corrupted, i)
		}
	} else if len(original) > len(current) {
		for i := len(current); i < len(original); i++ {
			corrupted = append(corrupted, i)
		}
	}

	return corrupted
}

func decodeDigest(h string) ([merkle.Size]byte, error) {
	var out [merkle.Size]byte
	b, err := hex.DecodeString(h)
	if err != nil {
		return out, err
	}
	if len(b) != merkle.Size {
		return out, fmt.Errorf("expected %d bytes, got %d", merkle.Size, len(b))
	}
	copy(out[:], b)
	return out, nil
}
