// internal/writers/reads.go
package writers

import (
	"fmt"
	"io"

	"porecat/internal/jsonutil"
	"porecat/internal/scan"
	"porecat/pkg/api"
)

// ReadTSVHeader is the header row for TSV read output: one row per hit.
const ReadTSVHeader = "read_id\tsource_file\tlength\tbarcode\tadapter\tside\tpos\tidentity"

// ReadTextHeader is the header row for text read output: one row per read.
const ReadTextHeader = "read_id\tlength\tbarcode\tbest_start\tbest_end"

func hitCell(hits []scan.Hit, side scan.Side) string {
	h, ok := bestHit(hits, side)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%s@%d(%.1f%%)", h.Adapter.Name, h.Pos, h.Identity)
}

func init() {
	RegisterRead(FormatText, func(w io.Writer, in <-chan Read, header bool) error {
		if header {
			if _, err := fmt.Fprintln(w, ReadTextHeader); err != nil {
				return err
			}
		}
		for r := range in {
			if _, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				r.Record.ID, len(r.Record.Seq), r.Bin(),
				hitCell(r.Hits, scan.SideStart), hitCell(r.Hits, scan.SideEnd),
			); err != nil {
				return err
			}
		}
		return nil
	})

	RegisterRead(FormatTSV, func(w io.Writer, in <-chan Read, header bool) error {
		if header {
			if _, err := fmt.Fprintln(w, ReadTSVHeader); err != nil {
				return err
			}
		}
		for r := range in {
			for _, h := range r.Hits {
				if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%d\t%.1f\n",
					r.Record.ID, r.SourceFile, len(r.Record.Seq), r.Bin(),
					h.Adapter.Name, h.Side, h.Pos, h.Identity,
				); err != nil {
					return err
				}
			}
		}
		return nil
	})

	RegisterRead(FormatJSON, func(w io.Writer, in <-chan Read, _ bool) error {
		out := make([]api.ReadV1, 0, 128)
		for r := range in {
			out = append(out, ToAPIRead(r))
		}
		return jsonutil.EncodePretty(w, out)
	})

	RegisterRead(FormatJSONL, func(w io.Writer, in <-chan Read, _ bool) error {
		pipe, done := StartReadJSONLWriter(w, 64)
		for r := range in {
			pipe <- r
		}
		close(pipe)
		return <-done
	})

	// Reads echoed back with the call in the header.
	RegisterRead(FormatFASTA, func(w io.Writer, in <-chan Read, _ bool) error {
		for r := range in {
			if _, err := fmt.Fprintf(w, ">%s barcode=%s\n%s\n", r.Record.ID, r.Bin(), r.Record.Seq); err != nil {
				return err
			}
		}
		return nil
	})
}
