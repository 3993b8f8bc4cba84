package transloc

// Summary holds the per-sample event counts. Shared events are counted on the
// merged long-read set: NShared is the number of merged long-read calls with
// at least one Hi-C match. Hi-C calls are not deduplicated, so several Hi-C
// calls may support one shared event.
type Summary struct {
	Sample   string
	DeltaLR  int
	DBetween int

	NHiCTotal int
	NLRTotal  int
	NHiCOnly  int
	NLROnly   int
	NShared   int
}

// Summarize computes the counts for one sample. hic is the raw Hi-C set and
// lr the merged long-read set. Totals count distinct IDs.
func Summarize(sample string, hic, lr []Record, m *MatchResult, opts Opts) Summary {
	nHiC := countDistinctIDs(hic)
	nLR := countDistinctIDs(lr)
	return Summary{
		Sample:    sample,
		DeltaLR:   opts.DeltaLR,
		DBetween:  opts.DBetween,
		NHiCTotal: nHiC,
		NLRTotal:  nLR,
		NHiCOnly:  nHiC - len(m.HiCMatched),
		NLROnly:   nLR - len(m.LRMatched),
		NShared:   len(m.LRMatched),
	}
}

func countDistinctIDs(records []Record) int {
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		ids[r.ID] = struct{}{}
	}
	return len(ids)
}
