package transloc

import (
	"sort"

	"github.com/biogo/store/interval"
	"github.com/grailbio/base/log"
)

// Pair is a Hi-C call and a merged long-read call that describe the same
// event within the matching tolerance.
type Pair struct {
	HiCID string
	LRID  string
}

// Conflict reports a matched pair whose strand orientations disagree. The
// coordinates are those of the Hi-C call.
type Conflict struct {
	Sample     string
	ChrA       string
	PosA       int
	ChrB       string
	PosB       int
	HiCID      string
	HiCStrandA string
	HiCStrandB string
	LRID       string
	LRStrandA  string
	LRStrandB  string
}

// MatchOpts controls Match.
type MatchOpts struct {
	// DBetween is the max distance, in bp, allowed at each breakend.
	DBetween int
	// Indexed selects the interval-tree search. Results are identical to the
	// all-pairs scan.
	Indexed bool
}

// MatchResult is the output of Match.
type MatchResult struct {
	// Pairs lists every match, in discovery order. A record may appear in many
	// pairs.
	Pairs []Pair
	// HiCMatched and LRMatched are the IDs that appear in at least one pair.
	HiCMatched map[string]bool
	LRMatched  map[string]bool
	// Conflicts lists the pairs with different (strandA, strandB), in the same
	// order as Pairs.
	Conflicts []Conflict
}

// Match compares Hi-C calls against merged long-read calls. Only calls on the
// same chromosome pair are compared; a pair of calls matches if both PosA and
// PosB differ by at most opts.DBetween. Strands are ignored for matching, but
// a match with different orientations is also reported as a Conflict.
//
// Buckets are visited in the order they first appear in hic; within a bucket,
// hic calls are the outer loop and lr calls the inner loop, both in input
// order.
func Match(sample string, hic, lr []Record, opts MatchOpts) *MatchResult {
	res := &MatchResult{
		HiCMatched: map[string]bool{},
		LRMatched:  map[string]bool{},
	}
	hicGroups := GroupByChromPair(hic)
	lrGroups := GroupByChromPair(lr)
	nBuckets := 0
	for _, key := range hicGroups.Keys {
		if !lrGroups.Has(key) {
			continue
		}
		nBuckets++
		hs, ls := hicGroups.Records[key], lrGroups.Records[key]
		if opts.Indexed {
			res.matchIndexed(sample, hs, ls, opts.DBetween)
		} else {
			res.matchAll(sample, hs, ls, opts.DBetween)
		}
	}
	log.Debug.Printf("%s: %d shared chromosome pairs, %d matches, %d orientation conflicts",
		sample, nBuckets, len(res.Pairs), len(res.Conflicts))
	return res
}

func (res *MatchResult) matchAll(sample string, hs, ls []Record, d int) {
	for _, h := range hs {
		for _, l := range ls {
			if abs(h.PosA-l.PosA) <= d && abs(h.PosB-l.PosB) <= d {
				res.add(sample, h, l)
			}
		}
	}
}

// matchIndexed finds the same matches as matchAll. lr calls are stored in an
// interval tree keyed by [PosA-d, PosA+d], so a lookup at a Hi-C PosA returns
// the calls whose PosA is close enough; PosB is then checked directly.
func (res *MatchResult) matchIndexed(sample string, hs, ls []Record, d int) {
	if d < 0 {
		// Nothing can match, and the windows would be empty.
		return
	}
	var tree interval.IntTree
	for i, l := range ls {
		if err := tree.Insert(lrWindow{idx: i, start: l.PosA - d, end: l.PosA + d + 1}, true); err != nil {
			log.Panicf("insert %v: %v", l, err)
		}
	}
	tree.AdjustRanges()
	var hits []int
	for _, h := range hs {
		hits = hits[:0]
		for _, e := range tree.Get(posQuery(h.PosA)) {
			hits = append(hits, e.(lrWindow).idx)
		}
		// Restore input order so that Pairs comes out as in matchAll.
		sort.Ints(hits)
		for _, i := range hits {
			if l := ls[i]; abs(h.PosB-l.PosB) <= d {
				res.add(sample, h, l)
			}
		}
	}
}

func (res *MatchResult) add(sample string, h, l Record) {
	res.Pairs = append(res.Pairs, Pair{HiCID: h.ID, LRID: l.ID})
	res.HiCMatched[h.ID] = true
	res.LRMatched[l.ID] = true
	if h.StrandA != l.StrandA || h.StrandB != l.StrandB {
		res.Conflicts = append(res.Conflicts, Conflict{
			Sample:     sample,
			ChrA:       h.ChrA,
			PosA:       h.PosA,
			ChrB:       h.ChrB,
			PosB:       h.PosB,
			HiCID:      h.ID,
			HiCStrandA: h.StrandA,
			HiCStrandB: h.StrandB,
			LRID:       l.ID,
			LRStrandA:  l.StrandA,
			LRStrandB:  l.StrandB,
		})
	}
}

// lrWindow is the half-open range of Hi-C PosA values that can match the
// idx'th long-read call.
type lrWindow struct {
	idx        int
	start, end int
}

func (w lrWindow) Overlap(b interval.IntRange) bool { return w.end > b.Start && w.start < b.End }
func (w lrWindow) ID() uintptr                      { return uintptr(w.idx) }
func (w lrWindow) Range() interval.IntRange         { return interval.IntRange{Start: w.start, End: w.end} }

// posQuery is a single-position lookup key.
type posQuery int

func (q posQuery) Overlap(b interval.IntRange) bool { return b.Start <= int(q) && int(q) < b.End }
func (q posQuery) ID() uintptr                      { return 0 }
func (q posQuery) Range() interval.IntRange         { return interval.IntRange{Start: int(q), End: int(q) + 1} }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
