package engine

import (
	"testing"

	"github.com/lchess/halcyon/internal/board"
)

func TestTableStoreThenProbe(t *testing.T) {
	tt := NewTable(10)
	var hash uint64 = 0xDEADBEEF12345678
	m := board.NewMove(board.E2, board.E4)

	tt.Store(5, board.White, ExactEntry, 123, m, hash)

	entry, found := tt.Probe(hash, board.White)
	if !found {
		t.Fatal("expected to find the just-stored entry")
	}
	if entry.Value != 123 || entry.Depth != 5 || entry.Type != ExactEntry || entry.Move != m {
		t.Fatalf("entry = %+v, want Value=123 Depth=5 Type=Exact Move=%v", entry, m)
	}
}

func TestTableProbeMiss(t *testing.T) {
	tt := NewTable(10)
	if _, found := tt.Probe(0x1, board.White); found {
		t.Fatal("expected a miss on an empty table")
	}
}

func TestTableBucketReplacementPrefersOlderGeneration(t *testing.T) {
	tt := NewTable(2) // small table, 1 bucket of bucketWidth entries

	// Fill every slot in generation 0. Low 32 bits carry a distinct key;
	// high bits stay zero so every hash maps to the table's single bucket.
	for i := 0; i < bucketWidth; i++ {
		hash := uint64(i)
		tt.Store(1, board.White, ExactEntry, i, board.NoMove, hash)
	}

	tt.NewGeneration()

	// A store in the new generation must land somewhere, evicting an
	// old-generation entry rather than growing the bucket.
	newHash := uint64(bucketWidth)
	tt.Store(1, board.White, ExactEntry, 999, board.NoMove, newHash)

	if _, found := tt.Probe(newHash, board.White); !found {
		t.Fatal("expected the new-generation entry to be present after eviction")
	}

	dump := tt.Dump()
	if dump.Used > bucketWidth {
		t.Fatalf("Dump().Used = %d, want at most bucketWidth (%d)", dump.Used, bucketWidth)
	}
}

func TestTableClearResetsGeneration(t *testing.T) {
	tt := NewTable(10)
	tt.NewGeneration()
	tt.NewGeneration()
	tt.Store(3, board.White, ExactEntry, 1, board.NoMove, 0xAB)

	tt.Clear()

	if tt.generation != 0 {
		t.Fatalf("generation after Clear = %d, want 0", tt.generation)
	}
	if dump := tt.Dump(); dump.Used != 0 {
		t.Fatalf("Dump().Used after Clear = %d, want 0", dump.Used)
	}
}

func TestValueToFromTTRoundTripsNonMateScores(t *testing.T) {
	for _, v := range []int{0, 150, -150, 900, -900} {
		stored := ValueToTT(v, 7)
		back := ValueFromTT(stored, 7)
		if back != v {
			t.Fatalf("round trip at height 7: %d -> %d -> %d", v, stored, back)
		}
	}
}

func TestValueToFromTTRoundTripsMateScores(t *testing.T) {
	for _, v := range []int{Mate - 3, -Mate + 3, Mate - 1, -Mate + 1} {
		const height = 5
		stored := ValueToTT(v, height)
		back := ValueFromTT(stored, height)
		if back != v {
			t.Fatalf("mate score round trip at height %d: %d -> %d -> %d", height, v, stored, back)
		}
	}
}
