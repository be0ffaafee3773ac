// internal/app/list.go
package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"porecat-core/adapter"
	"porecat-core/fullseq"
	"porecat/internal/writers"
)

func newListCmd(e *env) *cobra.Command {
	var barcodes bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog adapters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := e.cat.All()
			if barcodes {
				list = e.cat.Barcodes()
			}
			return e.writeCatalog(list)
		},
	}
	cmd.Flags().BoolVar(&barcodes, "barcodes", false, "only barcode entries")
	return cmd
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "show NAME",
		Short:   "Show one adapter by exact name",
		Example: `  porecat show "Barcode 12 (reverse)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.cat.FindByName(args[0])
			if err != nil {
				return fail(err)
			}
			if e.cfg.Output == writers.FormatText {
				if err := writers.WriteAdapterDetail(e.out, a); err != nil && !writers.IsBrokenPipe(err) {
					return ioFail(err)
				}
				return nil
			}
			return e.writeCatalog([]*adapter.Adapter{a})
		},
	}
}

func newBuildCmd(e *env) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:       "build native|rapid [INDEX...]",
		Short:     "Build full barcode sequences",
		Long:      "Build the full native or rapid barcoding sequence for barcode INDEX, or for every barcode with --all.",
		Example:   "  porecat build native 1 2 3 -o fasta\n  porecat build native --all -o jsonl",
		ValidArgs: []string{"native", "rapid"},
		Args:      cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				one   func(int) (*adapter.Adapter, error)
				every func() ([]*adapter.Adapter, error)
			)
			switch args[0] {
			case "native":
				one = func(i int) (*adapter.Adapter, error) { return fullseq.Native(e.cat, i) }
				every = func() ([]*adapter.Adapter, error) { return fullseq.NativeAll(e.cat) }
			case "rapid":
				one = func(i int) (*adapter.Adapter, error) { return fullseq.Rapid(e.cat, i) }
				every = func() ([]*adapter.Adapter, error) { return fullseq.RapidAll(e.cat) }
			default:
				return usage(fmt.Errorf("unknown kit %q (want native or rapid)", args[0]))
			}

			idx := args[1:]
			if all == (len(idx) > 0) {
				return usage(fmt.Errorf("give barcode indexes or --all, not both or neither"))
			}
			if all {
				list, err := every()
				if err != nil {
					return fail(err)
				}
				if len(list) == 0 {
					return fail(fmt.Errorf("no %s barcodes in the catalog", args[0]))
				}
				return e.writeCatalog(list)
			}

			list := make([]*adapter.Adapter, 0, len(idx))
			for _, s := range idx {
				i, err := strconv.Atoi(s)
				if err != nil {
					return usage(fmt.Errorf("bad barcode index %q", s))
				}
				a, err := one(i)
				if err != nil {
					return fail(err)
				}
				list = append(list, a)
			}
			return e.writeCatalog(list)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every barcode in the catalog")
	return cmd
}

func (e *env) writeCatalog(list []*adapter.Adapter) error {
	if err := writers.WriteCatalog(e.cfg.Output, e.out, list, e.header); err != nil && !writers.IsBrokenPipe(err) {
		return ioFail(err)
	}
	return nil
}
