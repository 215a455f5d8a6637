package signature

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func randomBytes(t *testing.T, n int, seed int64) []byte {
	t.Helper()
	buf := make([]byte, n)
	rng := rand.New(rand.NewSource(seed))
	if _, err := rng.Read(buf); err != nil {
		t.Fatalf("failed to generate random bytes: %v", err)
	}
	return buf
}

// P7: enroll of an empty file fails.
func TestGenerateWithLeaves_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "empty.bin", nil)

	_, _, _, err := GenerateWithLeaves(path)
	if err != ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

// P4: round-trip — verify(enroll(b)) == Ok([]).
func TestRoundTrip_Valid(t *testing.T) {
	dir := t.TempDir()
	content := randomBytes(t, 50000, 1)
	path := writeTempFile(t, dir, "alpha.bin", content)

	root, leaves, boundaries, err := GenerateWithLeaves(path)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if len(leaves) < 1 {
		t.Fatalf("expected at least one leaf")
	}
	if boundaries[0] != 0 || boundaries[len(boundaries)-1] != len(content) {
		t.Fatalf("boundaries must cover the whole file, got %v", boundaries)
	}

	corrupted, ambiguous, err := CheckBrokenChunks(path, root, leaves, boundaries)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(corrupted) != 0 {
		t.Fatalf("expected no corrupted chunks, got %v", corrupted)
	}
	if ambiguous {
		t.Fatalf("unexpected ambiguous result on clean verify")
	}
}

// P8: idempotence — repeated verify calls all return Ok([]).
func TestRoundTrip_Idempotent(t *testing.T) {
	dir := t.TempDir()
	content := randomBytes(t, 20000, 2)
	path := writeTempFile(t, dir, "alpha.bin", content)

	root, leaves, boundaries, err := GenerateWithLeaves(path)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		corrupted, _, err := CheckBrokenChunks(path, root, leaves, boundaries)
		if err != nil {
			t.Fatalf("verify #%d failed: %v", i, err)
		}
		if len(corrupted) != 0 {
			t.Fatalf("verify #%d: expected no corruption, got %v", i, corrupted)
		}
	}
}

// P5: localization — flipping one byte implicates the chunk containing it.
func TestCheckBrokenChunks_LocalizedCorruption(t *testing.T) {
	dir := t.TempDir()
	content := make([]byte, 10000)
	for i := range content {
		content[i] = 0x01
	}
	path := writeTempFile(t, dir, "alpha.bin", content)

	root, leaves, boundaries, err := GenerateWithLeaves(path)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	flipOffset := 5000
	corruptedContent := make([]byte, len(content))
	copy(corruptedContent, content)
	corruptedContent[flipOffset] ^= 0xFF
	if err := os.WriteFile(path, corruptedContent, 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}

	corrupted, _, err := CheckBrokenChunks(path, root, leaves, boundaries)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(corrupted) == 0 {
		t.Fatalf("expected non-empty corrupted set")
	}

	wantIdx := -1
	for i := 0; i < len(boundaries)-1; i++ {
		if boundaries[i] <= flipOffset && flipOffset < boundaries[i+1] {
			wantIdx = i
			break
		}
	}
	if wantIdx < 0 {
		t.Fatalf("could not locate expected chunk index for offset %d", flipOffset)
	}

	found := false
	for _, idx := range corrupted {
		if idx == wantIdx {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("corrupted set %v does not include expected chunk index %d", corrupted, wantIdx)
	}
}

// Appending bytes implicates the tail indices beyond the original leaf count.
func TestCheckBrokenChunks_Append(t *testing.T) {
	dir := t.TempDir()
	content := make([]byte, 10000)
	for i := range content {
		content[i] = 0x01
	}
	path := writeTempFile(t, dir, "alpha.bin", content)

	root, leaves, boundaries, err := GenerateWithLeaves(path)
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	originalLeafCount := len(leaves)

	appended := append(append([]byte{}, content...), make([]byte, 2000)...)
	if err := os.WriteFile(path, appended, 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}

	corrupted, _, err := CheckBrokenChunks(path, root, leaves, boundaries)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(corrupted) == 0 {
		t.Fatalf("expected non-empty corrupted set after append")
	}

	maxCorrupted := 0
	for _, idx := range corrupted {
		if idx > maxCorrupted {
			maxCorrupted = idx
		}
	}
	if maxCorrupted < originalLeafCount {
		t.Fatalf("expected a corrupted index at or beyond the original leaf count %d, max was %d", originalLeafCount, maxCorrupted)
	}
}

func TestCheckBrokenChunks_MalformedSignature(t *testing.T) {
	dir := t.TempDir()
	content := randomBytes(t, 5000, 3)
	path := writeTempFile(t, dir, "gamma.bin", content)

	_, _, err := CheckBrokenChunks(path, "zz", []string{"zz"}, nil)
	if err == nil {
		t.Fatalf("expected an error for malformed signature")
	}
}

func TestCheckBrokenChunks_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "empty.bin", nil)

	validHex := "0000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"
	_, _, err := CheckBrokenChunks(path, validHex[:64], []string{validHex[:64]}, nil)
	if err != ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}
