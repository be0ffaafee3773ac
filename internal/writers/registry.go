// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"porecat-core/adapter"
)

// Output formats.
const (
	FormatText  = "text"
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatFASTA = "fasta"
)

type (
	CatalogFunc func(w io.Writer, list []*adapter.Adapter, header bool) error
	ReadFunc    func(w io.Writer, in <-chan Read, header bool) error
)

// Writer registries (format → handler). Register in init() blocks.
var (
	CatalogWriters = map[string]CatalogFunc{}
	ReadWriters    = map[string]ReadFunc{}
)

// Register helpers (idempotent last-wins)
func RegisterCatalog(format string, fn CatalogFunc) { CatalogWriters[format] = fn }
func RegisterRead(format string, fn ReadFunc)       { ReadWriters[format] = fn }

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(CatalogWriters))
	for f := range CatalogWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// WriteCatalog renders list in format.
func WriteCatalog(format string, w io.Writer, list []*adapter.Adapter, header bool) error {
	fn, ok := CatalogWriters[format]
	if !ok {
		return fmt.Errorf("unknown catalog format %q (no writer registered)", format)
	}
	return fn(w, list, header)
}

// WriteReads drains in and renders it in format. On an unknown format the
// channel is still drained so senders never block.
func WriteReads(format string, w io.Writer, in <-chan Read, header bool) error {
	fn, ok := ReadWriters[format]
	if !ok {
		for range in {
		}
		return fmt.Errorf("unknown read format %q (no writer registered)", format)
	}
	return fn(w, in, header)
}

// StartReadWriter spins up a writer goroutine for scanned reads. Close the
// returned channel, then wait on the error channel.
func StartReadWriter(out io.Writer, format string, header bool, bufSize int) (chan<- Read, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan Read, bufSize)
	errCh := make(chan error, 1)
	go func() {
		err := WriteReads(format, out, in, header)
		// Keep senders unblocked after an early writer exit.
		for range in {
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()
	return in, errCh
}
