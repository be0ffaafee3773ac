// internal/app/validate.go
package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(e *env) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog (and --adapters) and report lint findings",
		Long: `Loading the catalog already rejects structural errors: duplicate names,
missing sequences and non-ACGT bases. validate additionally reports entries
whose name and labels disagree on direction or whose start and end are not
reverse complements.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			issues := e.cat.Lint()
			for _, is := range issues {
				e.log.Warn("catalog lint", "adapter", is.Name, "issue", is.Message)
				if _, err := fmt.Fprintln(e.out, is.String()); err != nil {
					return ioFail(err)
				}
			}
			if _, err := fmt.Fprintf(e.out, "%d adapters (%d barcodes), %d lint issues\n",
				e.cat.Len(), len(e.cat.Barcodes()), len(issues)); err != nil {
				return ioFail(err)
			}
			if strict && len(issues) > 0 {
				return fail(fmt.Errorf("%d lint issues", len(issues)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero on lint findings")
	return cmd
}
