// internal/scan/scan.go
package scan

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"porecat-core/adapter"
	"porecat-core/match"
	"porecat/internal/fasta"
)

// Config controls the scanner.
type Config struct {
	Threads     int     // number of worker goroutines (>=1)
	EndSize     int     // bases searched at each read end
	Mismatches  int     // mismatches allowed per placement
	MinIdentity float64 // minimum identity (%) for a hit
}

type Side int

const (
	SideStart Side = iota
	SideEnd
)

func (s Side) String() string {
	if s == SideEnd {
		return "end"
	}
	return "start"
}

// Hit is one adapter placement in a read, in read coordinates.
type Hit struct {
	Adapter  *adapter.Adapter
	Side     Side
	Pos      int
	Length   int
	Identity float64
}

// ReadResult is everything the scanner found in one read.
type ReadResult struct {
	Record     fasta.Record
	SourceFile string
	Hits       []Hit
}

// Scores folds the hits into one Score per adapter name.
func (r ReadResult) Scores() map[string]adapter.Score {
	out := make(map[string]adapter.Score, len(r.Hits))
	for _, h := range r.Hits {
		s := out[h.Adapter.Name]
		if h.Side == SideStart {
			s.Start = max(s.Start, h.Identity)
		} else {
			s.End = max(s.End, h.Identity)
		}
		out[h.Adapter.Name] = s
	}
	return out
}

// pattern holds an adapter's fragments as bytes; nil means absent.
type pattern struct {
	a          *adapter.Adapter
	start, end []byte
}

// Scanner searches reads for a fixed set of adapters.
type Scanner struct {
	cfg      Config
	patterns []pattern
	log      *log.Logger
}

// New returns a scanner over adapters. The adapters are only read; their
// sequences are captured here.
func New(cfg Config, adapters []*adapter.Adapter, logger *log.Logger) *Scanner {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	ps := make([]pattern, 0, len(adapters))
	for _, a := range adapters {
		p := pattern{a: a}
		if a.HasStart() {
			p.start = []byte(a.Start.Seq)
		}
		if a.HasEnd() {
			p.end = []byte(a.End.Seq)
		}
		ps = append(ps, p)
	}
	return &Scanner{cfg: cfg, patterns: ps, log: logger}
}

// ScoreRead returns every hit of every adapter in seq.
func (s *Scanner) ScoreRead(seq []byte) []Hit {
	n := len(seq)
	win := min(s.cfg.EndSize, n)
	head := seq[:win]
	tailOff := n - win
	tail := seq[tailOff:]

	var hits []Hit
	for _, p := range s.patterns {
		if p.start != nil {
			if m, ok := match.Best(head, p.start, s.cfg.Mismatches); ok && m.Identity() >= s.cfg.MinIdentity {
				hits = append(hits, Hit{Adapter: p.a, Side: SideStart, Pos: m.Pos, Length: m.Length, Identity: m.Identity()})
			}
		}
		if p.end != nil {
			if m, ok := match.Best(tail, p.end, s.cfg.Mismatches); ok && m.Identity() >= s.cfg.MinIdentity {
				hits = append(hits, Hit{Adapter: p.a, Side: SideEnd, Pos: tailOff + m.Pos, Length: m.Length, Identity: m.Identity()})
			}
		}
	}
	return hits
}

// Run scores every read in files on cfg.Threads workers, records scores on
// board (when non-nil) and calls visit for each read from a single
// goroutine. It returns the first error encountered, including cancellation.
func (s *Scanner) Run(ctx context.Context, files []string, board *Board, visit func(ReadResult) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		rec  fasta.Record
		file string
	}
	jobs := make(chan job, s.cfg.Threads*2)
	results := make(chan ReadResult, s.cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(s.cfg.Threads)
	for w := 0; w < s.cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					res := ReadResult{Record: j.rec, SourceFile: j.file, Hits: s.ScoreRead(j.rec.Seq)}
					if board != nil {
						board.Add(res)
					}
					select {
					case results <- res:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			if cerr != nil {
				continue
			}
			if err := visit(r); err != nil {
				cerr = err
				cancel()
			}
		}
	}()

	// Feed work
	var ferr error
	for _, path := range files {
		s.log.Debug("scanning reads", "file", path)
		err := fasta.ReadPath(ctx, path, func(rec fasta.Record) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- job{rec: rec, file: path}:
				return nil
			}
		})
		if err != nil {
			ferr = err
			break
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	if ferr != nil {
		return ferr
	}
	return ctx.Err()
}
