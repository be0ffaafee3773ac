// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one read. Qual is nil for FASTA input.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
	Qual []byte
}

// IsFASTQ reports whether the record carries qualities.
func (r Record) IsFASTQ() bool { return r.Qual != nil }

// ReadPath streams the reads in path ("-" for stdin, gzip detected by magic
// number or .gz suffix) to emit. It stops at the first emit error or when ctx
// is done.
func ReadPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	if err := Read(ctx, rc, emit); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Read parses FASTA or FASTQ from r; the format is chosen from the first
// non-blank byte ('>' or '@').
func Read(ctx context.Context, r io.Reader, emit func(Record) error) error {
	br := bufio.NewReaderSize(r, 64<<10)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch b[0] {
		case '>':
			return readFASTA(ctx, br, emit)
		case '@':
			return readFASTQ(ctx, br, emit)
		case '\n', '\r', ' ', '\t':
			_, _ = br.ReadByte()
		default:
			return fmt.Errorf("unrecognised read format (first byte %q)", b[0])
		}
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // ultra-long nanopore reads on one line
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return sc
}

func splitHeader(h string) (id, desc string) {
	h = strings.TrimSpace(h)
	if i := strings.IndexAny(h, " \t"); i >= 0 {
		return h[:i], strings.TrimSpace(h[i+1:])
	}
	return h, ""
}

func readFASTA(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := newScanner(r)
	var (
		cur  Record
		have bool
		n    int
	)
	flush := func() error {
		if !have {
			return nil
		}
		return emit(cur)
	}
	for sc.Scan() {
		line := bytes.TrimRight(sc.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			n++
			if n%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			id, desc := splitHeader(string(line[1:]))
			cur, have = Record{ID: id, Desc: desc}, true
			continue
		}
		if !have {
			return fmt.Errorf("sequence before first header")
		}
		cur.Seq = append(cur.Seq, bytes.ToUpper(line)...)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}

func readFASTQ(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := newScanner(r)
	ln := 0
	next := func() ([]byte, bool) {
		for sc.Scan() {
			ln++
			line := bytes.TrimRight(sc.Bytes(), "\r")
			if len(line) == 0 {
				continue
			}
			// Scanner reuses its buffer on the next Scan.
			return bytes.Clone(line), true
		}
		return nil, false
	}
	for n := 1; ; n++ {
		head, ok := next()
		if !ok {
			break
		}
		if head[0] != '@' {
			return fmt.Errorf("line %d: expected '@' header", ln)
		}
		id, desc := splitHeader(string(head[1:]))
		seq, ok1 := next()
		plus, ok2 := next()
		qual, ok3 := next()
		if !ok1 || !ok2 || !ok3 {
			return fmt.Errorf("record %q: truncated FASTQ", id)
		}
		if plus[0] != '+' {
			return fmt.Errorf("line %d: expected '+' separator", ln-1)
		}
		if len(seq) != len(qual) {
			return fmt.Errorf("record %q: sequence/quality length mismatch (%d vs %d)", id, len(seq), len(qual))
		}
		rec := Record{
			ID:   id,
			Desc: desc,
			Seq:  bytes.ToUpper(seq),
			Qual: qual,
		}
		if err := emit(rec); err != nil {
			return err
		}
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return sc.Err()
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// Detect gzip by magic number (1F 8B) or by .gz suffix.
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	_, _ = fh.Seek(0, io.SeekStart)
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}
