package merkle

import "testing"

func TestRoot_NoLeaves(t *testing.T) {
	_, err := Root(nil)
	if err != ErrNoLeaves {
		t.Fatalf("expected ErrNoLeaves, got %v", err)
	}
}

func TestRoot_SingleLeaf(t *testing.T) {
	leaf := LeafHash([]byte("chunk"))
	root, err := Root([][Size]byte{leaf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != leaf {
		t.Fatalf("root of a single leaf must equal the leaf itself")
	}
}

func TestRoot_OddLevelDuplicatesLast(t *testing.T) {
	l1 := LeafHash([]byte("a"))
	l2 := LeafHash([]byte("b"))
	l3 := LeafHash([]byte("c"))

	root, err := Root([][Size]byte{l1, l2, l3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedTop := hashPair(l1, l2)
	expectedBottom := hashPair(l3, l3)
	want := hashPair(expectedTop, expectedBottom)

	if root != want {
		t.Fatalf("odd-level duplication mismatch")
	}
}

func TestRoot_Deterministic(t *testing.T) {
	leaves := [][Size]byte{
		LeafHash([]byte("1")),
		LeafHash([]byte("2")),
		LeafHash([]byte("3")),
		LeafHash([]byte("4")),
	}
	r1, err := Root(leaves)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := Root(leaves)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1 != r2 {
		t.Fatalf("merkle root must be deterministic")
	}
}
