package transloc

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Opts configures a reconciliation run.
type Opts struct {
	// DeltaLR is the radius, in bp, used to merge long-read calls into
	// clusters. Both breakends must be within DeltaLR of the running cluster
	// median.
	DeltaLR int
	// DBetween is the tolerance, in bp, for matching a Hi-C call against a
	// merged long-read call. Both breakends must be within DBetween.
	DBetween int

	// Samples lists the samples to process, in output order.
	Samples []string
	// InputDir holds one subdirectory per sample, each containing
	// <sample>_hic.tsv and <sample>_longread.tsv.
	InputDir string
	// OutputDir receives one subdirectory per sample plus the combined summary.
	OutputDir string

	// Parallelism is the max number of samples processed concurrently. Values
	// <= 1 process the samples one at a time.
	Parallelism int
	// IndexedMatch makes the matcher use an interval tree instead of the
	// all-pairs scan. The matches are the same either way.
	IndexedMatch bool
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	DeltaLR:     500,
	DBetween:    240000,
	Samples:     []string{"KMS11", "LP1", "MM1S", "RPMI8226", "U266", "PT1", "PT2", "PT3"},
	InputDir:    "6_Integration/1_trans_tsv",
	OutputDir:   "6_Integration/2_intersection",
	Parallelism: 1,
}

// Validate checks that the distance thresholds are usable.
func (o Opts) Validate() error {
	if o.DeltaLR < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("negative long-read merge distance: %d", o.DeltaLR))
	}
	if o.DBetween < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("negative Hi-C/long-read match distance: %d", o.DBetween))
	}
	return nil
}
