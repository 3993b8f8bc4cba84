package transloc

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// breakendEventType is the last column of every breakend row.
const breakendEventType = "translocation"

// Breakend is one directed half of a translocation, as consumed by
// downstream neo-loop tools: chrFrom chrTo orientation posFrom posTo type.
type Breakend struct {
	ChrFrom     string
	ChrTo       string
	Orientation string
	PosFrom     int
	PosTo       int
	Event       string
}

// FlipOrientation swaps "+-" and "-+". Other values are returned as-is.
func FlipOrientation(o string) string {
	switch o {
	case "+-":
		return "-+"
	case "-+":
		return "+-"
	}
	return o
}

// Breakends expands r into its A->B and B->A breakends. The orientation of
// each is the concatenation of the two strands in traversal direction.
func Breakends(r Record) [2]Breakend {
	return [2]Breakend{
		{ChrFrom: r.ChrA, ChrTo: r.ChrB, Orientation: r.StrandA + r.StrandB, PosFrom: r.PosA, PosTo: r.PosB, Event: breakendEventType},
		{ChrFrom: r.ChrB, ChrTo: r.ChrA, Orientation: r.StrandB + r.StrandA, PosFrom: r.PosB, PosTo: r.PosA, Event: breakendEventType},
	}
}

func writeBreakend(w *tsv.Writer, b Breakend) error {
	w.WriteString(b.ChrFrom)
	w.WriteString(b.ChrTo)
	w.WriteString(b.Orientation)
	w.WriteInt64(int64(b.PosFrom))
	w.WriteInt64(int64(b.PosTo))
	w.WriteString(b.Event)
	return w.EndLine()
}

// WriteBreakends writes both breakends of every merged long-read call that
// has a Hi-C match. The file has no header.
func WriteBreakends(ctx context.Context, path string, lr []Record, matched map[string]bool) error {
	return writeTSV(ctx, path, func(w *tsv.Writer) error {
		for _, r := range lr {
			if !matched[r.ID] {
				continue
			}
			for _, b := range Breakends(r) {
				if err := writeBreakend(w, b); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// numBreakendFields is the number of columns of a breakend table.
const numBreakendFields = 6

// ReadBreakendRows reads a breakend table as raw fields. Lines are split on
// tabs. Blank lines are skipped; any other line must have exactly 6 fields.
// Fields are not interpreted, so positions are kept as written. Errors report
// the 1-based line number.
func ReadBreakendRows(in io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(nil, maxLineLen)
	var rows [][]string
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != numBreakendFields {
			return nil, errors.Errorf("line %d: expect %d fields, found %d", line, numBreakendFields, len(fields))
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read breakends")
	}
	return rows, nil
}

// FlipBreakendRow returns the row for the same junction seen from the other
// side: chromosomes and positions swapped, orientation flipped. Fields are
// moved as-is.
//
// REQUIRES: len(row) == 6.
func FlipBreakendRow(row []string) []string {
	return []string{row[1], row[0], FlipOrientation(row[2]), row[4], row[3], row[5]}
}

// FlipBreakends reads a breakend table from inPath and writes every row
// followed by its flipped counterpart to outPath.
func FlipBreakends(ctx context.Context, inPath, outPath string) (n int, err error) {
	in, err := file.Open(ctx, inPath)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", inPath)
	}
	defer file.CloseAndReport(ctx, in, &err)
	rows, err := ReadBreakendRows(in.Reader(ctx))
	if err != nil {
		return 0, errors.Wrap(err, inPath)
	}
	err = writeTSV(ctx, outPath, func(w *tsv.Writer) error {
		for _, row := range rows {
			if err := writeRow(w, row...); err != nil {
				return err
			}
			if err := writeRow(w, FlipBreakendRow(row)...); err != nil {
				return err
			}
		}
		return nil
	})
	return len(rows), err
}
