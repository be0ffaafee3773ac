// internal/app/scan.go
package app

import (
	"context"
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"porecat-core/adapter"
	"porecat-core/fullseq"
	"porecat/internal/demux"
	"porecat/internal/scan"
	"porecat/internal/writers"
)

func newScanCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan READS...",
		Short: "Score reads against the catalog and call barcodes",
		Long: `scan searches both ends of every read (FASTA or FASTQ, gzip allowed, "-" for
stdin) for every catalog adapter and every full native and rapid barcode
sequence. It prints one record per read, logs the best score of each adapter
seen and, with --out-dir, writes reads to one file per barcode.`,
		Example: "  porecat scan reads.fastq.gz -o jsonl --out-dir bins",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return e.scan(cmd.Context(), files)
		},
	}

	f := cmd.Flags()
	f.Int("threads", 0, "worker goroutines (default: number of CPUs)")
	f.Int("end-size", 150, "bases searched at each read end")
	f.Int("mismatches", 3, "mismatches allowed per adapter placement")
	f.Float64("min-identity", 90, "minimum identity (%) for a hit")
	f.Float64("threshold", 75, "minimum barcode identity (%) to bin a read")
	f.Float64("diff", 5, "required lead of the best barcode over the runner-up")
	f.String("out-dir", "", "write reads to <out-dir>/<barcode>.fasta|fastq")
	bindFlags(e.v, f, map[string]string{
		"threads":      "scan.threads",
		"end-size":     "scan.end-size",
		"mismatches":   "scan.mismatches",
		"min-identity": "scan.min-identity",
		"threshold":    "demux.threshold",
		"diff":         "demux.diff",
		"out-dir":      "demux.out-dir",
	})
	return cmd
}

func (e *env) scan(ctx context.Context, files []string) error {
	native, err := fullseq.NativeAll(e.cat)
	if err != nil {
		return fail(err)
	}
	rapid, err := fullseq.RapidAll(e.cat)
	if err != nil {
		return fail(err)
	}
	adapters := append(e.cat.All(), native...)
	adapters = append(adapters, rapid...)

	sc := e.cfg.Scan
	scanner := scan.New(scan.Config{
		Threads:     sc.Threads,
		EndSize:     sc.EndSize,
		Mismatches:  sc.Mismatches,
		MinIdentity: sc.MinIdentity,
	}, adapters, e.log)
	e.log.Info("scanning", "files", len(files), "adapters", len(adapters), "threads", sc.Threads)

	var router *demux.Router
	if dir := e.cfg.Demux.OutDir; dir != "" {
		if router, err = demux.NewRouter(dir, e.log); err != nil {
			return fail(err)
		}
	}

	board := scan.NewBoard()
	pipe, done := writers.StartReadWriter(e.out, e.cfg.Output, e.header, 64)
	runErr := scanner.Run(ctx, files, board, func(r scan.ReadResult) error {
		call := demux.Classify(r.Hits, e.cfg.Demux.Threshold, e.cfg.Demux.Diff)
		if router != nil {
			if err := router.Write(call.Bin, r.Record); err != nil {
				return err
			}
		}
		pipe <- writers.Read{ReadResult: r, Call: call}
		return nil
	})
	close(pipe)
	writeErr := <-done

	var closeErr error
	if router != nil {
		counts := router.Counts()
		closeErr = router.Close()
		bins := make([]string, 0, len(counts))
		for b := range counts {
			bins = append(bins, b)
		}
		sort.Strings(bins)
		for _, b := range bins {
			e.log.Info("bin", "barcode", b, "reads", counts[b], "dir", e.cfg.Demux.OutDir)
		}
	}

	board.Apply(adapters)
	e.summarize(board, adapters)

	switch {
	case errors.Is(runErr, context.Canceled):
		return runErr
	case runErr != nil:
		return fail(runErr)
	case writeErr != nil:
		return ioFail(writeErr)
	case closeErr != nil:
		return fail(closeErr)
	}
	return nil
}

// summarize logs every adapter whose best score reached the hit threshold.
func (e *env) summarize(board *scan.Board, adapters []*adapter.Adapter) {
	for _, a := range adapters {
		if a.BestStartOrEndScore() < e.cfg.Scan.MinIdentity {
			continue
		}
		e.log.Info("adapter found",
			"name", a.Name,
			"best_start", a.BestStartScore,
			"best_end", a.BestEndScore,
			"reads", board.ReadsWith(a.Name),
		)
	}
	e.log.Info("scan complete", "reads", board.Reads())
}
