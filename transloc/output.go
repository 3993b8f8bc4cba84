package transloc

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// File name suffixes of the per-sample outputs. The full name is
// <sample><suffix>.
const (
	MergedSuffix       = "_longread_merged.tsv"
	MergeMapSuffix     = "_longread_merge_map.tsv"
	HiCMatchSuffix     = "_intersection_hic.tsv"
	LRMatchSuffix      = "_intersection_longread.tsv"
	ConflictSuffix     = "_orientation_conflicts.tsv"
	ComponentSuffix    = "_shared_components.tsv"
	SummarySuffix      = "_exact_event_summary.txt"
	SharedBEDSuffix    = "_exact_shared_longread_breakpoints.bed"
	BreakendSuffix     = "_transfinder_bnd.tsv"
	CombinedSummaryTSV = "all_samples_exact_event_summary.tsv"
)

// SampleOutputPath returns the path of one per-sample output file.
func SampleOutputPath(outputDir, sample, suffix string) string {
	return filepath.Join(outputDir, sample, sample+suffix)
}

// writeTSV creates path and lets fill write the rows. Any error, including
// one from closing the file, is returned.
func writeTSV(ctx context.Context, path string, fill func(w *tsv.Writer) error) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewWriter(out.Writer(ctx))
	if err = fill(w); err != nil {
		return errors.E(err, "write", path)
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, "flush", path)
	}
	return nil
}

func writeRow(w *tsv.Writer, cols ...string) error {
	for _, c := range cols {
		w.WriteString(c)
	}
	return w.EndLine()
}

func writeEvent(w *tsv.Writer, r Record) error {
	w.WriteString(r.Source)
	w.WriteString(r.ID)
	w.WriteString(r.Sample)
	w.WriteString(r.ChrA)
	w.WriteInt64(int64(r.PosA))
	w.WriteString(r.ChrB)
	w.WriteInt64(int64(r.PosB))
	w.WriteString(r.StrandA)
	w.WriteString(r.StrandB)
	return w.EndLine()
}

// WriteEvents writes records in the 9-column event layout, with a header.
// Records for which keep returns false are skipped; a nil keep writes all.
func WriteEvents(ctx context.Context, path string, records []Record, keep func(Record) bool) error {
	return writeTSV(ctx, path, func(w *tsv.Writer) error {
		if err := writeRow(w, eventHeader...); err != nil {
			return err
		}
		for _, r := range records {
			if keep != nil && !keep(r) {
				continue
			}
			if err := writeEvent(w, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMergeMap writes one (merged_id, original_id) row per absorbed call.
func WriteMergeMap(ctx context.Context, path string, merged []MergedCluster) error {
	return writeTSV(ctx, path, func(w *tsv.Writer) error {
		if err := writeRow(w, "merged_id", "original_id"); err != nil {
			return err
		}
		for _, m := range merged {
			for _, r := range m.Members {
				if err := writeRow(w, m.Merged.ID, r.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteConflicts writes the orientation-conflict report.
func WriteConflicts(ctx context.Context, path string, conflicts []Conflict) error {
	return writeTSV(ctx, path, func(w *tsv.Writer) error {
		if err := writeRow(w, "sample", "chrA", "posA", "chrB", "posB",
			"hic_id", "hic_strandA", "hic_strandB",
			"lr_id", "lr_strandA", "lr_strandB"); err != nil {
			return err
		}
		for _, c := range conflicts {
			w.WriteString(c.Sample)
			w.WriteString(c.ChrA)
			w.WriteInt64(int64(c.PosA))
			w.WriteString(c.ChrB)
			w.WriteInt64(int64(c.PosB))
			w.WriteString(c.HiCID)
			w.WriteString(c.HiCStrandA)
			w.WriteString(c.HiCStrandB)
			w.WriteString(c.LRID)
			w.WriteString(c.LRStrandA)
			w.WriteString(c.LRStrandB)
			if err := w.EndLine(); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteComponents writes the shared-component report.
func WriteComponents(ctx context.Context, path, sample string, comps []Component) error {
	return writeTSV(ctx, path, func(w *tsv.Writer) error {
		if err := writeRow(w, "sample", "component_id", "n_hic", "n_lr", "hic_ids", "lr_ids"); err != nil {
			return err
		}
		for _, c := range comps {
			w.WriteString(sample)
			w.WriteString(c.Name())
			w.WriteInt64(int64(len(c.HiC)))
			w.WriteInt64(int64(len(c.LR)))
			w.WriteString(strings.Join(c.HiC, ","))
			w.WriteString(strings.Join(c.LR, ","))
			if err := w.EndLine(); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSummary writes the two-line per-sample summary.
func WriteSummary(ctx context.Context, path string, s Summary) error {
	return writeTSV(ctx, path, func(w *tsv.Writer) error {
		if err := writeRow(w, "sample", "DELTA_LR", "D_BETWEEN",
			"N_HiC_total", "N_LR_total",
			"N_HiC_only", "N_LongRead_only", "N_Shared"); err != nil {
			return err
		}
		w.WriteString(s.Sample)
		for _, v := range []int{s.DeltaLR, s.DBetween, s.NHiCTotal, s.NLRTotal, s.NHiCOnly, s.NLROnly, s.NShared} {
			w.WriteInt64(int64(v))
		}
		return w.EndLine()
	})
}

// WriteSharedBED writes, for every component, one line per long-read member:
// chrA posA chrB posB id EVENT_<n>. lrByID must contain every LR id in comps.
func WriteSharedBED(ctx context.Context, path string, comps []Component, lrByID map[string]Record) error {
	return writeTSV(ctx, path, func(w *tsv.Writer) error {
		for _, c := range comps {
			event := "EVENT_" + strings.TrimPrefix(c.Name(), "C")
			for _, id := range c.LR {
				r, ok := lrByID[id]
				if !ok {
					return errors.E(errors.Invalid, "component", c.Name(), "references unknown long-read call", id)
				}
				w.WriteString(r.ChrA)
				w.WriteInt64(int64(r.PosA))
				w.WriteString(r.ChrB)
				w.WriteInt64(int64(r.PosB))
				w.WriteString(r.ID)
				w.WriteString(event)
				if err := w.EndLine(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteCombinedSummary writes one row per sample, in the given order.
func WriteCombinedSummary(ctx context.Context, path string, summaries []Summary) error {
	return writeTSV(ctx, path, func(w *tsv.Writer) error {
		if err := writeRow(w, "sample", "N_HiC_total", "N_LR_total", "N_HiC_only", "N_LR_only", "N_Shared"); err != nil {
			return err
		}
		for _, s := range summaries {
			w.WriteString(s.Sample)
			for _, v := range []int{s.NHiCTotal, s.NLRTotal, s.NHiCOnly, s.NLROnly, s.NShared} {
				w.WriteInt64(int64(v))
			}
			if err := w.EndLine(); err != nil {
				return err
			}
		}
		return nil
	})
}
