package transloc

import (
	"bytes"
	"compress/gzip"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

// tsvLines joins rows with newlines; fields within a row are given already
// tab-separated.
func tsvLines(rows ...string) string { return strings.Join(rows, "\n") + "\n" }

func TestReadRecordsHeader(t *testing.T) {
	for _, test := range []struct {
		name       string
		data       string
		wantHeader bool
		wantIDs    []string
	}{
		{
			"header",
			tsvLines(
				"source\tid\tsample\tchrA\tposA\tchrB\tposB\tstrandA\tstrandB",
				"longread\tL1\tS\tchr1\t100\tchr2\t200\t+\t-"),
			true,
			[]string{"L1"},
		},
		{
			"uppercaseHeader",
			tsvLines(
				"SOURCE\tID\tSAMPLE\tCHRA\tPOSA\tCHRB\tPOSB\tSA\tSB",
				"longread\tL1\tS\tchr1\t100\tchr2\t200\t+\t-"),
			true,
			[]string{"L1"},
		},
		{
			"noHeader",
			tsvLines(
				"longread\tL1\tS\tchr1\t100\tchr2\t200\t+\t-",
				"longread\tL2\tS\tchr1\t300\tchr2\t400\t-\t-"),
			false,
			[]string{"L1", "L2"},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			recs, stats, err := ReadRecords(strings.NewReader(test.data), "")
			assert.NoError(t, err)
			expect.EQ(t, stats.Header, test.wantHeader)
			var ids []string
			for _, r := range recs {
				ids = append(ids, r.ID)
			}
			expect.EQ(t, ids, test.wantIDs)
		})
	}
}

func TestReadRecordsDropsMalformedRows(t *testing.T) {
	data := tsvLines(
		"source\tid\tsample\tchrA\tposA\tchrB\tposB\tstrandA\tstrandB",
		"hic\tH1\tS\tchr1\t100\tchr2\t200\t+\t-",
		"",
		"hic\tH2\tS\tchr1\t100\tchr2",                 // too few fields
		"hic\tH3\tS\tchr1\tabc\tchr2\t200\t+\t-",       // bad posA
		"hic\tH4\tS\tchr1\t100\tchr2\t2.5\t+\t-",       // bad posB
		"longread\tL1\tS\tchr1\t100\tchr2\t200\t+\t-",  // other assay
		"hic\tH5\tS\tchr3\t7\tchr9\t8\t.\t.\textra\tx", // extra fields are fine
		"hic\tH1\tS\tchr1\t100\tchr2\t200\t+\t-",       // duplicate id is kept
	)
	recs, stats, err := ReadRecords(strings.NewReader(data), SourceHiC)
	assert.NoError(t, err)
	expect.EQ(t, recs, []Record{
		{Source: "hic", ID: "H1", Sample: "S", ChrA: "chr1", PosA: 100, ChrB: "chr2", PosB: 200, StrandA: "+", StrandB: "-"},
		{Source: "hic", ID: "H5", Sample: "S", ChrA: "chr3", PosA: 7, ChrB: "chr9", PosB: 8, StrandA: ".", StrandB: "."},
		{Source: "hic", ID: "H1", Sample: "S", ChrA: "chr1", PosA: 100, ChrB: "chr2", PosB: 200, StrandA: "+", StrandB: "-"},
	})
	expect.EQ(t, stats.ShortRows, 1)
	expect.EQ(t, stats.BadCoords, 2)
	expect.EQ(t, stats.WrongSource, 1)
	expect.EQ(t, stats.Kept, 3)
	expect.EQ(t, stats.Dropped(), 4)
}

func TestReadRecordsAnySource(t *testing.T) {
	data := tsvLines(
		"hic\tH1\tS\tchr1\t1\tchr2\t2\t+\t+",
		"longread\tL1\tS\tchr1\t1\tchr2\t2\t+\t+")
	recs, _, err := ReadRecords(strings.NewReader(data), "")
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 2)
}

func TestParseRecord(t *testing.T) {
	fields := strings.Split("hic\tH1\tS\tchr1\t 42 \tchr2\t-7\t+\t-", "\t")
	r, reason := parseRecord(fields, SourceHiC)
	expect.EQ(t, reason, rowOK)
	expect.EQ(t, r.PosA, 42)
	expect.EQ(t, r.PosB, -7)

	_, reason = parseRecord(fields[:8], SourceHiC)
	expect.EQ(t, reason, rowShort)
	_, reason = parseRecord(fields, SourceLongRead)
	expect.EQ(t, reason, rowWrongSource)
}

func TestLoadTSV(t *testing.T) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	recs, stats, err := LoadTSV(ctx, filepath.Join(tempDir, "nonexistent.tsv"), SourceHiC)
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 0)
	expect.EQ(t, stats, LoadStats{})

	path := filepath.Join(tempDir, "s_hic.tsv")
	assert.NoError(t, ioutil.WriteFile(path, []byte(tsvLines(
		"source\tid\tsample\tchrA\tposA\tchrB\tposB\tstrandA\tstrandB",
		"hic\tH1\tS\tchr1\t100\tchr2\t200\t+\t-")), 0644))
	recs, stats, err = LoadTSV(ctx, path, SourceHiC)
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 1)
	expect.EQ(t, recs[0].ID, "H1")
	expect.True(t, stats.Header)
}

func TestReadRecordsQuotesAreLiteral(t *testing.T) {
	data := tsvLines(
		"source\tid\tsample\tchrA\tposA\tchrB\tposB\tstrandA\tstrandB",
		"hic\t\"H1\tS\tchr1\t100\tchr2\t200\t+\t-",
		"hic\tH2\tS\tchr1\t300\tchr2\t400\t+\t-",
		"hic\tH3\tS\tchr1\t500\tchr2\t600\t+\t-",
		"hic\t\"H4\"\tS\tchr1\t700\tchr2\t800\t+\t-")
	recs, stats, err := ReadRecords(strings.NewReader(data), SourceHiC)
	assert.NoError(t, err)
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	expect.EQ(t, ids, []string{"\"H1", "H2", "H3", "\"H4\""})
	expect.EQ(t, recs[0].PosA, 100)
	expect.EQ(t, stats.Kept, 4)
	expect.EQ(t, stats.Dropped(), 0)
}

func TestReadRecordsHeaderAfterBlankLines(t *testing.T) {
	data := "\n\r\nsource\tid\tsample\tchrA\tposA\tchrB\tposB\tstrandA\tstrandB\r\n" +
		"hic\tH1\tS\tchr1\t100\tchr2\t200\t+\t-\r\n"
	recs, stats, err := ReadRecords(strings.NewReader(data), SourceHiC)
	assert.NoError(t, err)
	expect.True(t, stats.Header)
	expect.EQ(t, stats.Lines, 2)
	expect.EQ(t, len(recs), 1)
	expect.EQ(t, recs[0].StrandB, "-")
}

func TestLoadTSVGzip(t *testing.T) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(tsvLines(
		"source\tid\tsample\tchrA\tposA\tchrB\tposB\tstrandA\tstrandB",
		"hic\tH1\tS\tchr1\t100\tchr2\t200\t+\t-",
		"hic\tH2\tS\tchr3\t100\tchr4\t200\t-\t-")))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	path := filepath.Join(tempDir, "s_hic.tsv.gz")
	assert.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))

	recs, stats, err := LoadTSV(ctx, path, SourceHiC)
	assert.NoError(t, err)
	expect.EQ(t, len(recs), 2)
	expect.EQ(t, recs[1].ChrB, "chr4")
	expect.EQ(t, stats.Dropped(), 0)
}

func TestLoadTSVRejectsZstd(t *testing.T) {
	ctx := context.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "s_hic.tsv.zst")
	assert.NoError(t, ioutil.WriteFile(path, []byte{0x28, 0xb5, 0x2f, 0xfd, 0, 0, 0}, 0644))
	_, _, err := LoadTSV(ctx, path, SourceHiC)
	expect.True(t, errors.Is(errors.Invalid, err), "got %v", err)
	expect.False(t, IsSkipped(err))
}

func TestLoadStatsMerge(t *testing.T) {
	a := LoadStats{Lines: 3, ShortRows: 1, Kept: 2}
	b := LoadStats{Lines: 4, Header: true, BadCoords: 1, WrongSource: 1, Kept: 1}
	expect.EQ(t, a.Merge(b), LoadStats{Lines: 7, Header: true, ShortRows: 1, BadCoords: 1, WrongSource: 1, Kept: 3})
}
