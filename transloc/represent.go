package transloc

import (
	"math"
	"strconv"
)

// mergedIDPrefix is prepended to the 1-based cluster index to form the ID of
// a merged long-read record.
const mergedIDPrefix = "LRM_"

// MergedCluster is a cluster together with the record chosen to stand for it.
type MergedCluster struct {
	// Merged is a copy of the representative with a fresh ID ("LRM_<n>") and
	// source SourceLongRead.
	Merged Record
	// Members lists every original record absorbed into the cluster.
	Members []Record
}

// representativeKey orders candidates: smaller distance first, then larger
// PosB, then larger PosA, then smaller ID.
type representativeKey struct {
	dist       float64
	posA, posB int
	id         string
}

func (k representativeKey) less(o representativeKey) bool {
	if k.dist != o.dist {
		return k.dist < o.dist
	}
	if k.posB != o.posB {
		return k.posB > o.posB
	}
	if k.posA != o.posA {
		return k.posA > o.posA
	}
	return k.id < o.id
}

// SelectRepresentative picks the member closest to the cluster's medians,
// using the Manhattan distance |PosA-medA| + |PosB-medB| against the float
// medians. Ties go to the larger PosB, then the larger PosA, then the
// lexicographically smaller ID. The result doesn't depend on member order.
//
// REQUIRES: len(c.Members) > 0.
func SelectRepresentative(c Cluster) Record {
	posA := make([]int, len(c.Members))
	posB := make([]int, len(c.Members))
	for i, r := range c.Members {
		posA[i], posB[i] = r.PosA, r.PosB
	}
	medA, medB := medianOf(posA), medianOf(posB)

	keyOf := func(r Record) representativeKey {
		return representativeKey{
			dist: math.Abs(float64(r.PosA)-medA) + math.Abs(float64(r.PosB)-medB),
			posA: r.PosA,
			posB: r.PosB,
			id:   r.ID,
		}
	}
	best, bestKey := c.Members[0], keyOf(c.Members[0])
	for _, r := range c.Members[1:] {
		if k := keyOf(r); k.less(bestKey) {
			best, bestKey = r, k
		}
	}
	return best
}

// MergeClusters assigns IDs "LRM_1", "LRM_2", ... to the clusters in the
// given order and copies each representative into a merged record.
func MergeClusters(clusters []Cluster) []MergedCluster {
	merged := make([]MergedCluster, len(clusters))
	for i, c := range clusters {
		rep := SelectRepresentative(c)
		rep.Source = SourceLongRead
		rep.ID = mergedIDPrefix + strconv.Itoa(i+1)
		merged[i] = MergedCluster{Merged: rep, Members: c.Members}
	}
	return merged
}

// MergedRecords extracts the merged record of every cluster.
func MergedRecords(merged []MergedCluster) []Record {
	records := make([]Record, len(merged))
	for i, m := range merged {
		records[i] = m.Merged
	}
	return records
}
