package transloc

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestSummarize(t *testing.T) {
	hic := []Record{hicRec("H1", 1000, 1000), hicRec("H2", 1100, 1100), hicRec("H2", 1200, 1200), hicRec("H3", 900000, 9)}
	lr := []Record{lrRec("LRM_1", 1000, 1000), lrRec("LRM_2", 5000000, 5000000)}
	opts := Opts{DeltaLR: 500, DBetween: 240000}
	m := Match("S1", hic, lr, MatchOpts{DBetween: opts.DBetween})
	s := Summarize("S1", hic, lr, m, opts)
	expect.EQ(t, s, Summary{
		Sample:    "S1",
		DeltaLR:   500,
		DBetween:  240000,
		NHiCTotal: 3,
		NLRTotal:  2,
		NHiCOnly:  1,
		NLROnly:   1,
		NShared:   1,
	})
	expect.EQ(t, s.NLROnly+s.NShared, s.NLRTotal)
	expect.True(t, s.NShared <= s.NLRTotal)
	expect.True(t, s.NHiCOnly <= s.NHiCTotal)
}

func TestSummarizeNoMatches(t *testing.T) {
	hic := []Record{hicRec("H1", 1, 1)}
	lr := []Record{lrRec("LRM_1", 9000000, 9000000)}
	m := Match("S", hic, lr, MatchOpts{DBetween: 10})
	s := Summarize("S", hic, lr, m, DefaultOpts)
	expect.EQ(t, s.NShared, 0)
	expect.EQ(t, s.NHiCOnly, 1)
	expect.EQ(t, s.NLROnly, 1)
	expect.EQ(t, s.DBetween, DefaultOpts.DBetween)
}
