package engine

import (
	"github.com/lchess/halcyon/internal/board"
)

// EntryType is the kind of bound a transposition entry records.
type EntryType uint8

const (
	// ExactEntry records a fully-resolved PV score.
	ExactEntry EntryType = iota
	// LowerBoundEntry records a fail-high (Cut node) bound.
	LowerBoundEntry
	// UpperBoundEntry records a fail-low (All node) bound.
	UpperBoundEntry
)

// TransEntry is the probed/stored contract the core depends on: a depth at
// which the value is trustworthy, the bound type, the score, and the move
// that produced it (used as the ordering hash-move hint even when the bound
// itself is too shallow to resolve the node).
type TransEntry struct {
	Key   uint32
	Depth int8
	Value int16
	Type  EntryType
	Move  board.Move
}

func (e TransEntry) found() bool {
	return e.Depth != 0 || e.Move != board.NoMove
}

// bucketWidth is the number of entries sharing a hash index. Bucketing lets
// the replacement policy keep a deep entry around even when a shallower
// search of the same index collides with it, at the cost of a short linear
// scan per probe/store.
const bucketWidth = 4

type bucket struct {
	entries [bucketWidth]TransEntry
	ages    [bucketWidth]uint8
}

// Table is a bucketed, hash-indexed cache of previously computed search
// results. Only its lookup/store contract is part of this specification;
// the concrete replacement policy below (favor same-generation depth, else
// evict the oldest generation) is one reasonable implementation of it.
type Table struct {
	buckets    []bucket
	mask       uint64
	generation uint8
}

// NewTable allocates a table with 2^log2Entries entries, grouped into
// buckets of bucketWidth.
func NewTable(log2Entries int) *Table {
	numEntries := uint64(1) << uint(log2Entries)
	numBuckets := numEntries / bucketWidth
	if numBuckets == 0 {
		numBuckets = 1
	}
	return &Table{
		buckets: make([]bucket, numBuckets),
		mask:    numBuckets - 1,
	}
}

// NewGeneration starts a fresh search: existing entries are not cleared
// (table construction is already the "fresh generation" boundary per the
// driver contract) but the age counter advances so the replacement policy
// can tell stale entries from this search's own writes.
func (t *Table) NewGeneration() {
	t.generation++
}

func (t *Table) index(hash uint64) uint64 {
	return (hash >> 32) & t.mask
}

func key32(hash uint64) uint32 {
	return uint32(hash)
}

// Probe looks up a position by Zobrist hash. The side to move is already
// folded into the hash by the board package's Zobrist scheme, so it is not
// a separate probe key, but it is accepted here to document the contract
// the spec names ("look up (hash, side-to-move)").
func (t *Table) Probe(hash uint64, _ board.Color) (TransEntry, bool) {
	b := &t.buckets[t.index(hash)]
	k := key32(hash)
	for i := range b.entries {
		if b.entries[i].Key == k && b.entries[i].found() {
			return b.entries[i], true
		}
	}
	return TransEntry{}, false
}

// Store saves a search result, replacing whichever bucket slot is least
// valuable: an empty slot first, then a slot from an older generation, then
// the shallowest same-generation entry.
func (t *Table) Store(depth int, _ board.Color, typ EntryType, value int, move board.Move, hash uint64) {
	b := &t.buckets[t.index(hash)]
	k := key32(hash)

	victim := 0
	for i := range b.entries {
		if b.entries[i].Key == k || !b.entries[i].found() {
			victim = i
			break
		}
		if b.ages[i] != t.generation {
			victim = i
		} else if b.ages[victim] == t.generation && b.entries[i].Depth < b.entries[victim].Depth {
			victim = i
		}
	}

	b.entries[victim] = TransEntry{
		Key:   k,
		Depth: int8(depth),
		Value: int16(value),
		Type:  typ,
		Move:  move,
	}
	b.ages[victim] = t.generation
}

// Clear empties the table and resets its generation, as required before a
// fresh getBestMove call: cross-search TT reuse is out of scope.
func (t *Table) Clear() {
	for i := range t.buckets {
		t.buckets[i] = bucket{}
	}
	t.generation = 0
}

// TableStats summarizes table occupancy for diagnostics.
type TableStats struct {
	Buckets int
	Used    int
}

// Dump reports how full the table is (the dumpTranspositionTable contract).
func (t *Table) Dump() TableStats {
	used := 0
	for i := range t.buckets {
		for j := range t.buckets[i].entries {
			if t.buckets[i].entries[j].found() {
				used++
			}
		}
	}
	return TableStats{Buckets: len(t.buckets) * bucketWidth, Used: used}
}

// ValueFromTT adjusts a stored score back into node-relative terms: mate
// scores are distance-to-root dependent, so a mate bound stored at one
// height must be shifted when read back at another.
func ValueFromTT(value, height int) int {
	if value > Mate-MaxHeight {
		return value - height
	}
	if value < -Mate+MaxHeight {
		return value + height
	}
	return value
}

// ValueToTT is the inverse of ValueFromTT, applied before storing.
func ValueToTT(value, height int) int {
	if value > Mate-MaxHeight {
		return value + height
	}
	if value < -Mate+MaxHeight {
		return value - height
	}
	return value
}
