package main

// bio-transloc reconciles translocation calls from long-read sequencing and
// Hi-C for a set of samples.
//
// Example 1: run the default sample list with the default thresholds.
//
//    bio-transloc intersect -input-dir=6_Integration/1_trans_tsv -output-dir=6_Integration/2_intersection
//
// Example 2: two samples, tighter tolerance, keep a recordio archive of each result.
//
//    bio-transloc intersect -samples=KMS11,LP1 -d-between=100000 -archive
//    bio-transloc dump 6_Integration/2_intersection/KMS11/KMS11_intersection.rio
//
// Example 3: add the reverse breakend for every row of a breakend table.
//
//    bio-transloc flip-bnd -i in.tsv -o out.tsv

import (
	"context"
	"fmt"
	"io"
	golog "log"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bio-transloc/transloc"
	"v.io/x/lib/cmdline"
)

// Collection of options set via intersect flags.
type intersectFlags struct {
	deltaLR      int
	dBetween     int
	samples      string
	inputDir     string
	outputDir    string
	parallelism  int
	indexedMatch bool
	archive      bool
}

// opts converts the flags into transloc.Opts.
func (f intersectFlags) opts() transloc.Opts {
	opts := transloc.DefaultOpts
	opts.DeltaLR = f.deltaLR
	opts.DBetween = f.dBetween
	opts.InputDir = f.inputDir
	opts.OutputDir = f.outputDir
	opts.Parallelism = f.parallelism
	opts.IndexedMatch = f.indexedMatch
	if f.samples != "" {
		opts.Samples = nil
		for _, s := range strings.Split(f.samples, ",") {
			if s = strings.TrimSpace(s); s != "" {
				opts.Samples = append(opts.Samples, s)
			}
		}
	}
	return opts
}

func intersect(ctx context.Context, flags intersectFlags) error {
	opts := flags.opts()
	results, err := transloc.Run(ctx, opts)
	if err != nil {
		return err
	}
	if !flags.archive {
		return nil
	}
	for _, res := range results {
		path := transloc.SampleOutputPath(opts.OutputDir, res.Sample, archiveSuffix)
		if err := writeArchive(ctx, path, res, opts); err != nil {
			return err
		}
		log.Printf("%s: wrote %d clusters to %s", res.Sample, len(res.Merged), path)
	}
	return nil
}

// dump prints the summary and merged clusters stored in an archive.
func dump(ctx context.Context, out io.Writer, path string, members bool) error {
	r, err := newArchiveReader(ctx, path)
	if err != nil {
		return err
	}
	t := r.Trailer()
	s := t.Summary
	fmt.Fprintf(out, "sample\t%s\nDELTA_LR\t%d\nD_BETWEEN\t%d\n", t.Sample, t.Opts.DeltaLR, t.Opts.DBetween)
	fmt.Fprintf(out, "N_HiC_total\t%d\nN_LR_total\t%d\nN_HiC_only\t%d\nN_LongRead_only\t%d\nN_Shared\t%d\n",
		s.NHiCTotal, s.NLRTotal, s.NHiCOnly, s.NLROnly, s.NShared)
	fmt.Fprintf(out, "matches\t%d\nconflicts\t%d\ncomponents\t%d\n", len(t.Pairs), len(t.Conflicts), len(t.Components))
	for r.Scan() {
		c := r.Get()
		m := c.Merged
		fmt.Fprintf(out, "%s\t%s:%d\t%s:%d\t%s\t%d\n", m.ID, m.ChrA, m.PosA, m.ChrB, m.PosB, m.Orientation(), len(c.Members))
		if members {
			for _, rec := range c.Members {
				fmt.Fprintf(out, "\t%s\t%s:%d\t%s:%d\t%s\n", rec.ID, rec.ChrA, rec.PosA, rec.ChrB, rec.PosB, rec.Orientation())
			}
		}
	}
	return r.Close(ctx)
}

func newCmdIntersect() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "intersect",
		Short: "Merge long-read calls and intersect them with Hi-C calls, per sample",
		Long: `
For every sample, reads <input-dir>/<sample>/<sample>_hic.tsv and
<input-dir>/<sample>/<sample>_longread.tsv, merges the long-read calls into
clusters, matches them against the Hi-C calls and writes the per-sample tables
under <output-dir>/<sample>/ plus <output-dir>/all_samples_exact_event_summary.tsv.
Samples missing either table are skipped.`,
	}
	flags := intersectFlags{}
	d := transloc.DefaultOpts
	cmd.Flags.IntVar(&flags.deltaLR, "delta-lr", d.DeltaLR, "Max distance (bp) at each breakend for merging long-read calls.")
	cmd.Flags.IntVar(&flags.dBetween, "d-between", d.DBetween, "Max distance (bp) at each breakend for matching Hi-C and long-read calls.")
	cmd.Flags.StringVar(&flags.samples, "samples", strings.Join(d.Samples, ","), "Comma-separated list of samples, in output order.")
	cmd.Flags.StringVar(&flags.inputDir, "input-dir", d.InputDir, "Directory containing one subdirectory of input tables per sample.")
	cmd.Flags.StringVar(&flags.outputDir, "output-dir", d.OutputDir, "Directory to write the results to.")
	cmd.Flags.IntVar(&flags.parallelism, "parallelism", d.Parallelism, "Max number of samples processed concurrently.")
	cmd.Flags.BoolVar(&flags.indexedMatch, "indexed-match", d.IndexedMatch, "Use an interval tree to find Hi-C/long-read matches. Output is unchanged.")
	cmd.Flags.BoolVar(&flags.archive, "archive", false, "Also write <sample>"+archiveSuffix+", a recordio dump readable by 'dump'.")
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("intersect takes no arguments, but got %v", argv)
		}
		return intersect(context.Background(), flags)
	})
	return cmd
}

func newCmdFlipBnd() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "flip-bnd",
		Short: "Add the reverse breakend after every row of a breakend table",
		Long: `
Reads a 6-column table (chrFrom chrTo orientation posFrom posTo type) and writes
each row followed by the same junction seen from the other side: chromosomes and
positions swapped, "+-" and "-+" exchanged. Fields are split on tabs and copied
as written; lines that do not have exactly 6 fields are an error.`,
	}
	inFlag := cmd.Flags.String("i", "", "Path to the input file.")
	outFlag := cmd.Flags.String("o", "", "Path to the output file.")
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *inFlag == "" || *outFlag == "" {
			return fmt.Errorf("flip-bnd requires both -i and -o")
		}
		n, err := transloc.FlipBreakends(context.Background(), *inFlag, *outFlag)
		if err != nil {
			return err
		}
		log.Printf("wrote %d rows to %s", 2*n, *outFlag)
		return nil
	})
	return cmd
}

func newCmdDump() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "dump",
		Short:    "Print the contents of an archive written by 'intersect -archive'",
		ArgsName: "path",
	}
	membersFlag := cmd.Flags.Bool("members", false, "Also list the original calls in every cluster.")
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("dump takes one pathname argument, but got %v", argv)
		}
		return dump(context.Background(), env.Stdout, argv[0], *membersFlag)
	})
	return cmd
}

func main() {
	golog.SetFlags(golog.Ldate | golog.Ltime | golog.Lmicroseconds | golog.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-transloc",
			Short:    "Reconcile long-read and Hi-C translocation calls",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdIntersect(),
				newCmdFlipBnd(),
				newCmdDump(),
			},
		})
}
