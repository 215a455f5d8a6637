// Package chunker implements content-defined chunking (CDC): splitting a
// byte buffer into variable-length chunks whose boundaries depend on the
// content itself, so a local edit shifts only nearby chunks rather than
// renumbering every chunk after it.
package chunker

import "errors"

// Fixed parameters shared by enrollment and verification. Changing any
// of these changes the chunk boundaries a file produces, so they must
// never vary across a deployment.
const (
	// WindowSize is the rolling-hash window, in bytes.
	WindowSize = 48
	// AverageChunkSize is the target average chunk size, in bytes.
	AverageChunkSize = 4096
	// MaskBits is the number of low bits of the rolling hash checked
	// against zero to decide a cut point.
	MaskBits = 13
	// Mask is the bitmask derived from MaskBits.
	Mask = (1 << MaskBits) - 1

	// MinChunkSize is the minimum size of any non-final chunk.
	MinChunkSize = AverageChunkSize / 4
	// MaxChunkSize is the maximum size of any non-final chunk.
	MaxChunkSize = AverageChunkSize * 4
)

// ErrEmptyBuffer is returned when chunking an empty byte slice.
var ErrEmptyBuffer = errors.New("chunker: buffer is empty")

// Chunk is a contiguous, non-owning view into a file's bytes.
type Chunk struct {
	Start int
	End   int
}

// Bytes returns the chunk's slice of buf.
func (c Chunk) Bytes(buf []byte) []byte {
	return buf[c.Start:c.End]
}

// rollingHash computes H[0..n-W] for buf under window size w, per the
// wrapping 32-bit running-sum recurrence:
//
//	H[0] = sum(buf[0:w])
//	H[i] = H[i-1] + buf[i+w-1] - buf[i-1]
//
// If buf is shorter than w, the sequence is the single value 0.
func rollingHash(buf []byte, w int) []uint32 {
	n := len(buf)
	if n < w {
		return []uint32{0}
	}

	hashes := make([]uint32, n-w+1)
	var h uint32
	for i := 0; i < w; i++ {
		h += uint32(buf[i])
	}
	hashes[0] = h
	for i := w; i < n; i++ {
		h += uint32(buf[i])
		h -= uint32(buf[i-w])
		hashes[i-w+1] = h
	}
	return hashes
}

// FindBoundaries runs the rolling-hash CDC algorithm over buf and
// returns the cut offsets: boundaries[0] == 0, boundaries[len-1] ==
// len(buf), strictly increasing. It never returns an error for a
// non-empty buffer; ErrEmptyBuffer is returned for an empty one.
func FindBoundaries(buf []byte) ([]int, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}

	hashes := rollingHash(buf, WindowSize)
	boundaries := make([]int, 0, len(buf)/AverageChunkSize+2)
	boundaries = append(boundaries, 0)

	for i, h := range hashes {
		b := i + WindowSize
		size := b - boundaries[len(boundaries)-1]
		if size >= MinChunkSize && (h&Mask == 0 || size >= MaxChunkSize) && b < len(buf) {
			boundaries = append(boundaries, b)
		}
	}

	if boundaries[len(boundaries)-1] != len(buf) {
		boundaries = append(boundaries, len(buf))
	}

	return boundaries, nil
}

// ChunksFromBoundaries turns a boundary sequence into Chunk views. The
// boundary sequence may have been freshly computed by FindBoundaries or
// supplied externally (e.g. the positions stored in a signature record),
// in which case no rolling hash is re-run — this is the path
// verification uses to reproduce the original segmentation over
// possibly-shifted content.
//
// Externally supplied boundaries are reconciled against len(buf) rather
// than trusted outright: a boundary past the end of buf is clamped, any
// chunk whose start has fallen off the end of a shrunk buffer is
// dropped, and bytes appended past the last boundary become one extra
// trailing chunk. This keeps the result panic-free on a truncated file
// and guarantees appended bytes always land inside some chunk.
func ChunksFromBoundaries(buf []byte, boundaries []int) []Chunk {
	chunks := make([]Chunk, 0, len(boundaries))
	for i := 0; i < len(boundaries)-1; i++ {
		start := boundaries[i]
		if start >= len(buf) {
			break
		}
		end := boundaries[i+1]
		if end > len(buf) {
			end = len(buf)
		}
		chunks = append(chunks, Chunk{Start: start, End: end})
	}

	if len(chunks) == 0 {
		if len(boundaries) > 0 && boundaries[0] < len(buf) {
			chunks = append(chunks, Chunk{Start: boundaries[0], End: len(buf)})
		}
		return chunks
	}

	if last := chunks[len(chunks)-1]; last.End < len(buf) {
		chunks = append(chunks, Chunk{Start: last.End, End: len(buf)})
	}

	return chunks
}

// Split splits buf into content-defined chunks, returning both the
// chunk views and the boundary offsets that produced them.
func Split(buf []byte) ([]Chunk, []int, error) {
	boundaries, err := FindBoundaries(buf)
	if err != nil {
		return nil, nil, err
	}
	return ChunksFromBoundaries(buf, boundaries), boundaries, nil
}
