package transloc

// Groups partitions records by chromosome pair. Keys lists the pairs in the
// order they first appear in the input, so iterating over Keys is
// deterministic.
type Groups struct {
	Keys    []ChromPair
	Records map[ChromPair][]Record
}

// GroupByChromPair buckets the records by (ChrA, ChrB). Records keep their
// input order within a bucket. The pair is taken as-is; (chr2, chr1) and
// (chr1, chr2) are different buckets.
func GroupByChromPair(records []Record) *Groups {
	g := &Groups{Records: map[ChromPair][]Record{}}
	for _, r := range records {
		key := r.Pair()
		if _, ok := g.Records[key]; !ok {
			g.Keys = append(g.Keys, key)
		}
		g.Records[key] = append(g.Records[key], r)
	}
	return g
}

// Has checks if the pair has at least one record.
func (g *Groups) Has(key ChromPair) bool {
	_, ok := g.Records[key]
	return ok
}
