// internal/writers/catalog.go
package writers

import (
	"fmt"
	"io"
	"text/tabwriter"

	"porecat-core/adapter"
	"porecat/internal/jsonutil"
	"porecat/pkg/api"
)

// CatalogTSVHeader is the header row for TSV catalog listings.
const CatalogTSVHeader = "name\tkind\torientation\tbarcode_name\tstart_label\tstart_seq\tend_label\tend_seq\tbest_start\tbest_end"

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func barcodeName(a *adapter.Adapter) string {
	if !a.IsBarcode() {
		return ""
	}
	return a.BarcodeName()
}

func init() {
	RegisterCatalog(FormatText, func(w io.Writer, list []*adapter.Adapter, header bool) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		if header {
			if _, err := fmt.Fprintln(tw, "NAME\tKIND\tORIENTATION\tSTART\tEND\tBEST"); err != nil {
				return err
			}
		}
		for _, a := range list {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\n",
				a.Name, a.Kind, a.Orientation,
				orDash(a.Start.Label), orDash(a.End.Label),
				a.BestStartOrEndScore(),
			); err != nil {
				return err
			}
		}
		return tw.Flush()
	})

	RegisterCatalog(FormatTSV, func(w io.Writer, list []*adapter.Adapter, header bool) error {
		if header {
			if _, err := fmt.Fprintln(w, CatalogTSVHeader); err != nil {
				return err
			}
		}
		for _, a := range list {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.1f\t%.1f\n",
				a.Name, a.Kind, a.Orientation, orDash(barcodeName(a)),
				orDash(a.Start.Label), orDash(a.Start.Seq),
				orDash(a.End.Label), orDash(a.End.Seq),
				a.BestStartScore, a.BestEndScore,
			); err != nil {
				return err
			}
		}
		return nil
	})

	RegisterCatalog(FormatJSON, func(w io.Writer, list []*adapter.Adapter, _ bool) error {
		out := make([]api.AdapterV1, 0, len(list))
		for _, a := range list {
			out = append(out, ToAPIAdapter(a))
		}
		return jsonutil.EncodePretty(w, out)
	})

	RegisterCatalog(FormatJSONL, func(w io.Writer, list []*adapter.Adapter, _ bool) error {
		pipe, done := StartAdapterJSONLWriter(w, len(list))
		for _, a := range list {
			pipe <- a
		}
		close(pipe)
		return <-done
	})

	// One record per fragment, named by its label.
	RegisterCatalog(FormatFASTA, func(w io.Writer, list []*adapter.Adapter, _ bool) error {
		for _, a := range list {
			for _, f := range []adapter.Fragment{a.Start, a.End} {
				if f.IsZero() {
					continue
				}
				if _, err := fmt.Fprintf(w, ">%s adapter=%q\n%s\n", f.Label, a.Name, f.Seq); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteAdapterDetail renders one record as a labelled block for `show`.
func WriteAdapterDetail(w io.Writer, a *adapter.Adapter) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	rows := [][2]string{
		{"name:", a.Name},
		{"kind:", a.Kind.String()},
		{"orientation:", a.Orientation.String()},
	}
	if a.IsBarcode() {
		rows = append(rows, [2]string{"barcode name:", a.BarcodeName()})
	}
	if a.HasStart() {
		rows = append(rows, [2]string{"start:", a.Start.Label + "\t" + a.Start.Seq})
	}
	if a.HasEnd() {
		rows = append(rows, [2]string{"end:", a.End.Label + "\t" + a.End.Seq})
	}
	rows = append(rows, [2]string{"best score:", fmt.Sprintf("start %.1f\tend %.1f", a.BestStartScore, a.BestEndScore)})
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
