// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"porecat-core/catalog"
	"porecat/internal/config"
	"porecat/internal/customfile"
	"porecat/internal/logging"
	"porecat/internal/version"
	"porecat/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitIO       = 3
	ExitCanceled = 130
)

// exitError carries a specific exit code out of a RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(err error) error  { return &exitError{code: ExitFailure, err: err} }
func usage(err error) error { return &exitError{code: ExitUsage, err: err} }
func ioFail(err error) error { return &exitError{code: ExitIO, err: err} }

// env is the state shared by every command of one invocation.
type env struct {
	v       *viper.Viper
	cfgFile string
	header  bool

	cfg config.Config
	log *log.Logger
	cat *catalog.Catalog

	out    io.Writer
	stderr io.Writer
}

// setup loads config, logger and catalog. Custom adapters are validated here
// so every command sees the same catalog.
func (e *env) setup() error {
	cfg, err := config.Load(e.v, e.cfgFile)
	if err != nil {
		return usage(err)
	}
	if _, ok := writers.CatalogWriters[cfg.Output]; !ok {
		return usage(fmt.Errorf("unknown output format %q (want one of %s)", cfg.Output, strings.Join(writers.Formats(), ", ")))
	}
	e.cfg = cfg
	e.log = logging.New(e.stderr, cfg.LogLevel, cfg.Verbose)

	base, err := catalog.Default()
	if err != nil {
		return fail(err)
	}
	cat, err := customfile.Extend(base, cfg.Adapters)
	if err != nil {
		return usage(err)
	}
	e.cat = cat
	e.log.Debug("catalog loaded", "adapters", cat.Len(), "barcodes", len(cat.Barcodes()), "custom", cfg.Adapters)
	for _, is := range cat.Lint() {
		e.log.Debug("catalog lint", "adapter", is.Name, "issue", is.Message)
	}
	return nil
}

func newRoot(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "porecat",
		Short: "Oxford Nanopore adapter and barcode catalog",
		Long: `porecat lists the known Oxford Nanopore adapters and barcodes, builds the
full native and rapid barcode sequences and scores reads against them.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgFile, "config", "", "config file (default ./porecat.yaml if present)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.BoolP("verbose", "v", false, "debug logging")
	pf.String("adapters", "", "custom adapter file (yaml, json, toml or .tsv)")
	pf.StringP("output", "o", writers.FormatText, "output format: text, tsv, json, jsonl, fasta")
	pf.BoolVar(&e.header, "header", true, "print a header row (text and tsv)")
	bindFlags(e.v, pf, map[string]string{
		"log-level": "log-level",
		"verbose":   "verbose",
		"adapters":  "adapters",
		"output":    "output",
	})

	root.AddCommand(
		newListCmd(e),
		newShowCmd(e),
		newBuildCmd(e),
		newValidateCmd(e),
		newScanCmd(e),
	)
	return root
}

// bindFlags binds flag names in fs to viper keys so that a flag set on the
// command line beats the environment and the config file.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		_ = v.BindPFlag(key, fs.Lookup(flag))
	}
}

// Run executes one porecat invocation and returns its exit code.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	e := &env{v: viper.New(), out: outw, stderr: stderr}

	root := newRoot(e)
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if ferr := outw.Flush(); ferr != nil && !writers.IsBrokenPipe(ferr) && err == nil {
		_, _ = fmt.Fprintln(stderr, ferr)
		return ExitIO
	}
	if err == nil || writers.IsBrokenPipe(err) {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return ExitCanceled
	}
	_, _ = fmt.Fprintln(stderr, "porecat:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Unwrapped errors come from argument parsing.
	return ExitUsage
}
