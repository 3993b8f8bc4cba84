package transloc

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// maxLineLen bounds the length of one table line.
const maxLineLen = 1 << 20

// dropReason tells why parseRecord rejected a row.
type dropReason int

const (
	rowOK dropReason = iota
	rowShort
	rowWrongSource
	rowBadCoord
)

// LoadTSV reads an event table. Columns are
//
//   source id sample chrA posA chrB posB strandA strandB [ignored...]
//
// Lines are split on tabs; quote characters have no special meaning. The first
// non-blank line is treated as a header iff its first field is "source"
// (case-insensitive). Rows with fewer than 9 fields, with non-integer
// coordinates, or (if source is nonempty) with a different source tag are
// dropped. A missing file yields no records and no error.
//
// Files ending in .gz or .bz2 are decompressed; see compress.NewReaderPath.
// Zstd-compressed tables are rejected.
func LoadTSV(ctx context.Context, path, source string) (records []Record, stats LoadStats, err error) {
	if strings.HasSuffix(path, ".zst") {
		return nil, stats, errors.E(errors.Invalid, path, "zstd-compressed tables are not supported, use gzip")
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		if isNotExist(err) {
			log.Debug.Printf("%s: not found", path)
			return nil, stats, nil
		}
		return nil, stats, errors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		defer u.Close() // nolint: errcheck
		r = u
	}
	if records, stats, err = ReadRecords(r, source); err != nil {
		return nil, stats, errors.E(err, "read", path)
	}
	log.Debug.Printf("%s: kept %d of %d lines (header %v, short %d, bad coords %d, other source %d)",
		path, stats.Kept, stats.Lines, stats.Header, stats.ShortRows, stats.BadCoords, stats.WrongSource)
	return records, stats, nil
}

// ReadRecords is LoadTSV for an already opened stream.
func ReadRecords(in io.Reader, source string) ([]Record, LoadStats, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(nil, maxLineLen)
	var (
		records []Record
		stats   LoadStats
	)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Lines++
		fields := strings.Split(line, "\t")
		if stats.Lines == 1 && strings.ToLower(fields[0]) == "source" {
			stats.Header = true
			continue
		}
		rec, reason := parseRecord(fields, source)
		switch reason {
		case rowShort:
			stats.ShortRows++
		case rowWrongSource:
			stats.WrongSource++
		case rowBadCoord:
			stats.BadCoords++
		default:
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, err
	}
	stats.Kept = len(records)
	return records, stats, nil
}

// parseRecord converts one row into a Record. The row is usable iff the
// returned reason is rowOK.
func parseRecord(fields []string, source string) (Record, dropReason) {
	if len(fields) < numEventFields {
		return Record{}, rowShort
	}
	if source != "" && fields[0] != source {
		return Record{}, rowWrongSource
	}
	posA, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return Record{}, rowBadCoord
	}
	posB, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil {
		return Record{}, rowBadCoord
	}
	return Record{
		Source:  fields[0],
		ID:      fields[1],
		Sample:  fields[2],
		ChrA:    fields[3],
		PosA:    posA,
		ChrB:    fields[5],
		PosB:    posB,
		StrandA: fields[7],
		StrandB: fields[8],
	}, rowOK
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(errors.NotExist, err)
}
