package transloc

import "fmt"

// Source tags used in the first column of the event tables.
const (
	SourceHiC      = "hic"
	SourceLongRead = "longread"
)

// Record is one translocation call. ChrA/ChrB are expected to be ordered
// canonically by the upstream normalization step; this package never reorders
// them.
type Record struct {
	// Source is the assay tag, SourceHiC or SourceLongRead.
	Source string
	// ID is unique within (Source, Sample), although the loader doesn't enforce
	// it.
	ID     string
	Sample string
	ChrA   string
	PosA   int
	ChrB   string
	PosB   int
	// StrandA and StrandB are "+", "-", or whatever marker the caller used for
	// an unknown orientation.
	StrandA string
	StrandB string
}

// ChromPair is the (chrA, chrB) bucket key.
type ChromPair struct {
	ChrA, ChrB string
}

// Pair returns the bucket key of the record.
func (r Record) Pair() ChromPair { return ChromPair{r.ChrA, r.ChrB} }

// Orientation returns the concatenated strand symbols, e.g. "+-".
func (r Record) Orientation() string { return r.StrandA + r.StrandB }

func (r Record) String() string {
	return fmt.Sprintf("%s:%s(%s:%d%s,%s:%d%s)", r.Source, r.ID, r.ChrA, r.PosA, r.StrandA, r.ChrB, r.PosB, r.StrandB)
}

func (p ChromPair) String() string { return p.ChrA + "/" + p.ChrB }

// eventHeader is the column layout shared by the input tables and the merged
// and intersection outputs.
var eventHeader = []string{
	"source", "id", "sample", "chrA", "posA", "chrB", "posB", "strandA", "strandB",
}

// numEventFields is the minimum number of columns in an event row.
const numEventFields = 9
