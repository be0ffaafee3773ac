// internal/demux/router.go
package demux

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"porecat/internal/fasta"
)

type sink struct {
	fh *os.File
	bw *bufio.Writer
	n  int
}

// Router writes reads to one file per bin inside dir. Files are created on
// first use and named <bin>.fasta or <bin>.fastq after the read format. A
// Router is not safe for concurrent use.
type Router struct {
	dir   string
	log   *log.Logger
	sinks map[string]*sink
}

// NewRouter creates dir if needed.
func NewRouter(dir string, logger *log.Logger) (*Router, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Router{dir: dir, log: logger, sinks: map[string]*sink{}}, nil
}

// Path returns the output path for bin and format.
func (r *Router) Path(bin string, fastq bool) string {
	ext := ".fasta"
	if fastq {
		ext = ".fastq"
	}
	return filepath.Join(r.dir, bin+ext)
}

// Write appends rec to bin's file.
func (r *Router) Write(bin string, rec fasta.Record) error {
	key := bin
	if rec.IsFASTQ() {
		key += "\x00q"
	}
	s, ok := r.sinks[key]
	if !ok {
		p := r.Path(bin, rec.IsFASTQ())
		fh, err := os.Create(p)
		if err != nil {
			return err
		}
		r.log.Debug("opened bin", "bin", bin, "path", p)
		s = &sink{fh: fh, bw: bufio.NewWriterSize(fh, 64<<10)}
		r.sinks[key] = s
	}
	s.n++
	return writeRecord(s.bw, rec)
}

func writeRecord(w *bufio.Writer, rec fasta.Record) error {
	header := rec.ID
	if rec.Desc != "" {
		header += " " + rec.Desc
	}
	var err error
	if rec.IsFASTQ() {
		_, err = fmt.Fprintf(w, "@%s\n%s\n+\n%s\n", header, rec.Seq, rec.Qual)
	} else {
		_, err = fmt.Fprintf(w, ">%s\n%s\n", header, rec.Seq)
	}
	return err
}

// Counts returns reads written per bin, FASTA and FASTQ combined.
func (r *Router) Counts() map[string]int {
	out := make(map[string]int, len(r.sinks))
	for key, s := range r.sinks {
		bin := key
		if n := len(key); n > 2 && key[n-2:] == "\x00q" {
			bin = key[:n-2]
		}
		out[bin] += s.n
	}
	return out
}

// Close flushes and closes every file and returns the first error.
func (r *Router) Close() error {
	keys := make([]string, 0, len(r.sinks))
	for k := range r.sinks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var errs []error
	for _, k := range keys {
		s := r.sinks[k]
		if err := s.bw.Flush(); err != nil {
			errs = append(errs, err)
		}
		if err := s.fh.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.sinks = map[string]*sink{}
	return errors.Join(errs...)
}
