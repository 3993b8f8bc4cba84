package main

// This file defines archiveWriter and archiveReader. An archive stores one
// sample's merged long-read clusters, matches and counts in a recordio file,
// so that the result can be inspected later without rerunning the sample.

import (
	"bytes"
	"context"
	"encoding/gob"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/grailbio/bio-transloc/transloc"
)

const (
	// <fileVersionHeader, fileVersion> is stored in a recordio header.
	fileVersionHeader = "translocversion"
	fileVersion       = "TRANSLOC_V1"

	archiveSuffix = "_intersection.rio"
)

// archiveTrailer is stored in the trailer section of the recordio file.
type archiveTrailer struct {
	// Opts is the configuration used to produce the archive.
	Opts   transloc.Opts
	Sample string
	// HiC is the list of Hi-C calls as loaded.
	HiC        []transloc.Record
	Pairs      []transloc.Pair
	Conflicts  []transloc.Conflict
	Components []transloc.Component
	Summary    transloc.Summary
}

// archiveWriter writes a sample archive. Each body record is a gob-encoded
// transloc.MergedCluster.
type archiveWriter struct {
	out file.File
	w   recordio.Writer
}

func newArchiveWriter(ctx context.Context, path string) (*archiveWriter, error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(fileVersionHeader, fileVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	return &archiveWriter{out: out, w: w}, nil
}

func encodeGOB(v interface{}) ([]byte, error) {
	b := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(b).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Append adds one merged cluster.
func (w *archiveWriter) Append(c transloc.MergedCluster) error {
	b, err := encodeGOB(c)
	if err != nil {
		return err
	}
	w.w.Append(b)
	return nil
}

// Close writes the trailer and closes the file. It must be called exactly
// once, after all the clusters have been appended.
func (w *archiveWriter) Close(ctx context.Context, t archiveTrailer) error {
	once := errors.Once{}
	b, err := encodeGOB(t)
	once.Set(err)
	if err == nil {
		w.w.SetTrailer(b)
	}
	once.Set(w.w.Finish())
	once.Set(w.out.Close(ctx))
	return once.Err()
}

// writeArchive dumps res to path.
func writeArchive(ctx context.Context, path string, res *transloc.SampleResult, opts transloc.Opts) error {
	w, err := newArchiveWriter(ctx, path)
	if err != nil {
		return err
	}
	for _, c := range res.Merged {
		if err := w.Append(c); err != nil {
			_ = w.Close(ctx, archiveTrailer{})
			return errors.E(err, "append", path)
		}
	}
	return w.Close(ctx, archiveTrailer{
		Opts:       opts,
		Sample:     res.Sample,
		HiC:        res.HiC,
		Pairs:      res.Match.Pairs,
		Conflicts:  res.Match.Conflicts,
		Components: res.Components,
		Summary:    res.Summary,
	})
}

// archiveReader reads a file produced by archiveWriter.
type archiveReader struct {
	in      file.File
	r       recordio.Scanner
	trailer archiveTrailer
	err     error

	c transloc.MergedCluster // last cluster read by Scan.
}

func newArchiveReader(ctx context.Context, path string) (*archiveReader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	recordiozstd.Init()
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == fileVersionHeader {
			if v, _ := kv.Value.(string); v != fileVersion {
				in.Close(ctx) // nolint: errcheck
				return nil, errors.E(errors.Invalid, path, "archive version mismatch, got", v, "expect", fileVersion)
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		in.Close(ctx) // nolint: errcheck
		return nil, errors.E(errors.Invalid, path, fileVersionHeader+" not found")
	}
	ar := &archiveReader{in: in, r: r}
	if err := gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&ar.trailer); err != nil {
		in.Close(ctx) // nolint: errcheck
		return nil, errors.E(err, "decode trailer", path)
	}
	return ar, nil
}

// Trailer returns the run metadata. It can be called any time.
func (r *archiveReader) Trailer() archiveTrailer { return r.trailer }

// Scan reads the next cluster.
//
// REQUIRES: Close hasn't been called.
func (r *archiveReader) Scan() bool {
	if r.err != nil || !r.r.Scan() {
		return false
	}
	r.c = transloc.MergedCluster{}
	if err := gob.NewDecoder(bytes.NewReader(r.r.Get().([]byte))).Decode(&r.c); err != nil {
		r.err = err
		return false
	}
	return true
}

// Get yields the current cluster.
//
// REQUIRES: Last Scan call returned true.
func (r *archiveReader) Get() transloc.MergedCluster { return r.c }

// Close closes the reader and reports any error seen while scanning.
func (r *archiveReader) Close(ctx context.Context) error {
	once := errors.Once{}
	once.Set(r.err)
	once.Set(r.r.Err())
	once.Set(r.in.Close(ctx))
	return once.Err()
}
