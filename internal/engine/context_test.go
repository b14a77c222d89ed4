package engine

import (
	"testing"
	"time"

	"github.com/lchess/halcyon/internal/board"
	"github.com/rs/zerolog"
)

func newTestContext(t *testing.T, priorHashes []uint64, seconds int) *SearchContext {
	t.Helper()
	tt := NewTable(10)
	return NewSearchContext(tt, priorHashes, seconds, board.White, zerolog.Nop())
}

func TestIsRepetitionDetectsTwoPriorOccurrences(t *testing.T) {
	// The hash under test sits at posHistory[n-1], mirroring how search()
	// calls IsRepetition after the mover's hash has already been pushed.
	// Its same-side-to-move predecessors are two plies apart: n-3, n-5, ...
	history := []uint64{2, 9, 2, 8, 2}
	sc := newTestContext(t, history, 10)

	if !sc.IsRepetition(2) {
		t.Fatal("hash 2 occupies three same-parity slots (0, 2, 4); expected a repetition")
	}
}

func TestIsRepetitionNotYetThreefold(t *testing.T) {
	// hash 2 occupies only one same-parity predecessor slot (index 2); two
	// total occurrences is not yet a threefold repetition.
	history := []uint64{5, 9, 2, 8, 2}
	sc := newTestContext(t, history, 10)

	if sc.IsRepetition(2) {
		t.Fatal("hash 2 has only one prior same-parity occurrence; should not count as a repetition yet")
	}
}

func TestIsRepetitionIgnoresOppositeParity(t *testing.T) {
	// hash 9 occurs earlier only at indices 1 and 3, an odd distance from the
	// checked slot (index 4), so those positions had the opponent to move.
	history := []uint64{5, 9, 1, 9, 9}
	sc := newTestContext(t, history, 10)

	if sc.IsRepetition(9) {
		t.Fatal("hash 9 has no same-parity predecessor; should not be a repetition")
	}
}

func TestPushPopHashRoundTrips(t *testing.T) {
	sc := newTestContext(t, []uint64{1, 2}, 10)
	before := len(sc.posHistory)

	sc.PushHash(99)
	if len(sc.posHistory) != before+1 {
		t.Fatalf("len after PushHash = %d, want %d", len(sc.posHistory), before+1)
	}

	sc.PopHash()
	if len(sc.posHistory) != before {
		t.Fatalf("len after PopHash = %d, want %d", len(sc.posHistory), before)
	}
}

func TestBumpNodesIsMonotonic(t *testing.T) {
	sc := newTestContext(t, nil, 10)

	var last int64
	for i := 0; i < 1000; i++ {
		sc.bumpNodes()
		if sc.TotalNodes <= last {
			t.Fatalf("TotalNodes did not strictly increase: %d -> %d", last, sc.TotalNodes)
		}
		last = sc.TotalNodes
	}
	if sc.Stats.TotalNodes != sc.TotalNodes {
		t.Fatalf("Stats.TotalNodes (%d) diverged from TotalNodes (%d)", sc.Stats.TotalNodes, sc.TotalNodes)
	}
}

func TestTimeExpiredRespectsStoppedFlag(t *testing.T) {
	sc := newTestContext(t, nil, 3600)
	if sc.TimeExpired() {
		t.Fatal("a fresh long-budget context should not report expired")
	}

	sc.Stopped.Store(true)
	if !sc.TimeExpired() {
		t.Fatal("Stopped=true should make TimeExpired report true regardless of the deadline")
	}
}

func TestTimeExpiredRespectsDeadline(t *testing.T) {
	sc := newTestContext(t, nil, 0)
	sc.EndTime = sc.StartTime.Add(-time.Millisecond)
	if !sc.TimeExpired() {
		t.Fatal("a deadline in the past should report expired")
	}
}
