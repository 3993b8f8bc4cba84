package transloc

import (
	"math"
	"sort"
)

// Cluster is a non-empty set of same-assay calls on one chromosome pair that
// are considered duplicates of a single breakpoint. Members are in (PosA,
// PosB) order.
type Cluster struct {
	Members []Record
}

// sortedInts is a multiset of ints kept in ascending order, used to maintain a
// running median.
type sortedInts []int

func (s *sortedInts) insert(v int) {
	i := sort.SearchInts(*s, v)
	*s = append(*s, 0)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = v
}

// median returns the middle value, or the mean of the two middle values if
// the length is even.
//
// REQUIRES: len(s) > 0.
func (s sortedInts) median() float64 {
	n := len(s)
	if n%2 == 1 {
		return float64(s[n/2])
	}
	return (float64(s[n/2-1]) + float64(s[n/2])) / 2
}

func medianOf(vals []int) float64 {
	s := make(sortedInts, len(vals))
	copy(s, vals)
	sort.Ints(s)
	return s.median()
}

// within checks if pos is at most delta away from the representative
// position.
func within(pos int, rep float64, delta int) bool {
	return math.Abs(float64(pos)-rep) <= float64(delta)
}

// clusterBuilder accumulates the currently open cluster.
type clusterBuilder struct {
	members    []Record
	posA, posB sortedInts
	repA, repB float64
}

func (b *clusterBuilder) reset(r Record) {
	b.members = []Record{r}
	b.posA = append(b.posA[:0], r.PosA)
	b.posB = append(b.posB[:0], r.PosB)
	b.repA, b.repB = float64(r.PosA), float64(r.PosB)
}

func (b *clusterBuilder) canAbsorb(r Record, delta int) bool {
	return within(r.PosA, b.repA, delta) && within(r.PosB, b.repB, delta)
}

// absorb adds r and moves the representative to the new medians.
func (b *clusterBuilder) absorb(r Record) {
	b.members = append(b.members, r)
	b.posA.insert(r.PosA)
	b.posB.insert(r.PosB)
	b.repA, b.repB = b.posA.median(), b.posB.median()
}

// ClusterRecords merges calls into clusters. Records are bucketed by
// chromosome pair (buckets visited in first-appearance order), then each
// bucket is sorted by (PosA, PosB) and scanned once: a record joins the open
// cluster if both of its positions are within delta of the cluster's running
// median, otherwise the open cluster is closed and a new one starts. Strands
// are ignored.
//
// The medians move as records are absorbed, so a cluster may span more than
// delta: with delta=500, positions 100, 550, 600 and 1000 form one cluster.
func ClusterRecords(records []Record, delta int) []Cluster {
	var (
		clusters []Cluster
		b        clusterBuilder
	)
	groups := GroupByChromPair(records)
	for _, key := range groups.Keys {
		bucket := append([]Record(nil), groups.Records[key]...)
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].PosA != bucket[j].PosA {
				return bucket[i].PosA < bucket[j].PosA
			}
			return bucket[i].PosB < bucket[j].PosB
		})
		b.reset(bucket[0])
		for _, r := range bucket[1:] {
			if b.canAbsorb(r, delta) {
				b.absorb(r)
				continue
			}
			clusters = append(clusters, Cluster{Members: b.members})
			b.reset(r)
		}
		clusters = append(clusters, Cluster{Members: b.members})
	}
	return clusters
}
