package transloc

import (
	"context"
	"path/filepath"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// SampleResult is everything computed for one sample.
type SampleResult struct {
	Sample string
	// HiC are the Hi-C calls as loaded.
	HiC []Record
	// LongRead are the long-read calls as loaded, before merging.
	LongRead []Record
	// Merged lists the long-read clusters in emission order.
	Merged     []MergedCluster
	Match      *MatchResult
	Components []Component
	Summary    Summary
}

// MergedRecords returns the merged long-read calls.
func (r *SampleResult) MergedRecords() []Record { return MergedRecords(r.Merged) }

// InputPath returns the path of a sample's input table for the given assay
// source, e.g. <inputDir>/KMS11/KMS11_hic.tsv.
func InputPath(inputDir, sample, source string) string {
	return filepath.Join(inputDir, sample, sample+"_"+source+".tsv")
}

// IsSkipped checks if err was returned by ProcessSample for a sample that
// lacks input on either side.
func IsSkipped(err error) bool {
	return errors.Is(errors.NotExist, err)
}

// Reconcile runs clustering, matching, component grouping and accounting on
// already loaded calls. It does no I/O.
func Reconcile(sample string, hic, longRead []Record, opts Opts) *SampleResult {
	merged := MergeClusters(ClusterRecords(longRead, opts.DeltaLR))
	lr := MergedRecords(merged)
	log.Debug.Printf("%s: %d long-read calls merged into %d clusters", sample, len(longRead), len(merged))
	m := Match(sample, hic, lr, MatchOpts{DBetween: opts.DBetween, Indexed: opts.IndexedMatch})
	return &SampleResult{
		Sample:     sample,
		HiC:        hic,
		LongRead:   longRead,
		Merged:     merged,
		Match:      m,
		Components: BuildComponents(m.Pairs),
		Summary:    Summarize(sample, hic, lr, m, opts),
	}
}

// ProcessSample loads one sample's Hi-C and long-read tables, reconciles them
// and writes the per-sample outputs under <opts.OutputDir>/<sample>. If either
// table is missing or has no usable rows, nothing is written and the error
// satisfies IsSkipped.
func ProcessSample(ctx context.Context, sample string, opts Opts) (*SampleResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hic, _, err := LoadTSV(ctx, InputPath(opts.InputDir, sample, SourceHiC), SourceHiC)
	if err != nil {
		return nil, err
	}
	lr, _, err := LoadTSV(ctx, InputPath(opts.InputDir, sample, SourceLongRead), SourceLongRead)
	if err != nil {
		return nil, err
	}
	if len(hic) == 0 || len(lr) == 0 {
		return nil, errors.E(errors.NotExist, sample+": missing hic or longread TSV")
	}
	res := Reconcile(sample, hic, lr, opts)
	if err := WriteSampleOutputs(ctx, opts.OutputDir, res); err != nil {
		return nil, err
	}
	return res, nil
}

// WriteSampleOutputs writes every per-sample table for res.
func WriteSampleOutputs(ctx context.Context, outputDir string, res *SampleResult) error {
	var (
		sample = res.Sample
		lr     = res.MergedRecords()
		m      = res.Match
		path   = func(suffix string) string { return SampleOutputPath(outputDir, sample, suffix) }
	)
	lrByID := make(map[string]Record, len(lr))
	for _, r := range lr {
		lrByID[r.ID] = r
	}
	steps := []func() error{
		func() error { return WriteEvents(ctx, path(MergedSuffix), lr, nil) },
		func() error { return WriteMergeMap(ctx, path(MergeMapSuffix), res.Merged) },
		func() error {
			return WriteEvents(ctx, path(HiCMatchSuffix), res.HiC, func(r Record) bool { return m.HiCMatched[r.ID] })
		},
		func() error {
			return WriteEvents(ctx, path(LRMatchSuffix), lr, func(r Record) bool { return m.LRMatched[r.ID] })
		},
		func() error { return WriteConflicts(ctx, path(ConflictSuffix), m.Conflicts) },
		func() error { return WriteComponents(ctx, path(ComponentSuffix), sample, res.Components) },
		func() error { return WriteSummary(ctx, path(SummarySuffix), res.Summary) },
		func() error { return WriteSharedBED(ctx, path(SharedBEDSuffix), res.Components, lrByID) },
		func() error { return WriteBreakends(ctx, path(BreakendSuffix), lr, m.LRMatched) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Run processes opts.Samples and writes the combined summary. Samples that
// lack input are logged and left out; any other error, including invalid
// opts, aborts the run. The
// returned results, like the combined summary, follow the order of
// opts.Samples.
func Run(ctx context.Context, opts Opts) ([]*SampleResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log.Printf("long-read merge delta=%d bp (strand ignored); Hi-C vs long-read tolerance=%d bp",
		opts.DeltaLR, opts.DBetween)
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	all := make([]*SampleResult, len(opts.Samples))
	err := traverse.Limit(parallelism).Each(len(opts.Samples), func(i int) error {
		res, err := ProcessSample(ctx, opts.Samples[i], opts)
		if err != nil {
			if IsSkipped(err) {
				log.Error.Printf("%s: missing hic or longread TSV, skip", opts.Samples[i])
				return nil
			}
			return err
		}
		all[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	var (
		results   []*SampleResult
		summaries []Summary
	)
	for _, res := range all {
		if res == nil {
			continue
		}
		results = append(results, res)
		summaries = append(summaries, res.Summary)
	}
	path := filepath.Join(opts.OutputDir, CombinedSummaryTSV)
	if err := WriteCombinedSummary(ctx, path, summaries); err != nil {
		return nil, err
	}
	log.Printf("wrote combined summary for %d of %d samples: %s", len(results), len(opts.Samples), path)
	return results, nil
}
