// internal/app/app_test.go
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"

	"porecat-core/catalog"
	"porecat-core/fullseq"
	"porecat/internal/config"
	"porecat/internal/logging"
	"porecat/pkg/api"
)

func isolate(t *testing.T) {
	t.Helper()
	orig := config.SearchPaths
	config.SearchPaths = []string{t.TempDir()}
	t.Cleanup(func() { config.SearchPaths = orig })
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	isolate(t)
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), append([]string{"--log-level", "error"}, args...), &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestListAll(t *testing.T) {
	code, out, stderr := run(t, "list")
	expect.EQ(t, code, ExitOK, stderr)
	if !strings.Contains(out, "SQK-NSK007") || !strings.Contains(out, "Barcode 96 (reverse)") {
		t.Fatalf("listing incomplete:\n%s", out)
	}
	expect.EQ(t, len(lines(out)), 102) // header + 101
}

func TestListBarcodesTSV(t *testing.T) {
	code, out, _ := run(t, "list", "--barcodes", "-o", "tsv", "--header=false")
	expect.EQ(t, code, ExitOK)
	ls := lines(out)
	expect.EQ(t, len(ls), 96)
	if !strings.HasPrefix(ls[0], "Barcode 1 (reverse)\tbarcode\treverse\trepBC01\t") {
		t.Fatalf("first row: %q", ls[0])
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	code, _, stderr := run(t, "list", "-o", "xml")
	expect.EQ(t, code, ExitUsage)
	if !strings.Contains(stderr, "unknown output format") {
		t.Fatalf("stderr: %s", stderr)
	}
}

func TestShow(t *testing.T) {
	code, out, _ := run(t, "show", "Barcode 1 (reverse)")
	expect.EQ(t, code, ExitOK)
	for _, w := range []string{"barcode name:", "repBC01", "CACAAAGACACCGACAACTTTCTT", "reverse"} {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q:\n%s", w, out)
		}
	}

	code, out, _ = run(t, "show", "Barcode 74 (reverse)", "-o", "json")
	expect.EQ(t, code, ExitOK)
	var v []api.AdapterV1
	expect.NoError(t, json.Unmarshal([]byte(out), &v))
	expect.EQ(t, v[0].Orientation, "forward")
}

func TestShowMissing(t *testing.T) {
	code, _, stderr := run(t, "show", "Barcode 1 (forward)")
	expect.EQ(t, code, ExitFailure)
	if !strings.Contains(stderr, "not found") {
		t.Fatalf("stderr: %s", stderr)
	}
}

func TestBuildNative(t *testing.T) {
	code, out, stderr := run(t, "build", "native", "1", "12", "-o", "fasta")
	expect.EQ(t, code, ExitOK, stderr)
	c, _ := catalog.Default()
	nb, _ := fullseq.Native(c, 12)
	for _, w := range []string{">NB01_start", ">NB01_end", ">NB12_start adapter=\"Native barcoding 12 (full sequence)\"\n" + nb.Start.Seq + "\n"} {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q", w)
		}
	}
	expect.EQ(t, strings.Count(out, ">"), 4)
}

func TestBuildNativeAll(t *testing.T) {
	code, out, _ := run(t, "build", "native", "--all", "-o", "jsonl")
	expect.EQ(t, code, ExitOK)
	ls := lines(out)
	expect.EQ(t, len(ls), 96)
	var v api.AdapterV1
	expect.NoError(t, json.Unmarshal([]byte(ls[95]), &v))
	expect.EQ(t, v.Name, "Native barcoding 96 (full sequence)")
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		args []string
		code int
		want string
	}{
		{[]string{"build", "rapid", "1"}, ExitFailure, "not found"},
		{[]string{"build", "rapid", "--all"}, ExitFailure, "no rapid barcodes"},
		{[]string{"build", "native", "0"}, ExitFailure, "index"},
		{[]string{"build", "native", "x"}, ExitUsage, "bad barcode index"},
		{[]string{"build", "native"}, ExitUsage, "--all"},
		{[]string{"build", "native", "--all", "3"}, ExitUsage, "--all"},
		{[]string{"build", "pcr", "1"}, ExitUsage, "unknown kit"},
		{[]string{"build"}, ExitUsage, "arg"},
	}
	for _, tc := range tests {
		code, _, stderr := run(t, tc.args...)
		if code != tc.code || !strings.Contains(stderr, tc.want) {
			t.Errorf("%v: code=%d stderr=%q, want %d containing %q", tc.args, code, stderr, tc.code, tc.want)
		}
	}
}

const customYAML = `adapters:
  - name: Barcode 1 (forward)
    start: {label: BC01, seq: AAGAAAGTTGTCGGTGTCTTTGTG}
    end:   {label: BC01_rev, seq: CACAAAGACACCGACAACTTTCTT}
`

func TestCustomAdaptersEnableRapid(t *testing.T) {
	path := writeFile(t, "custom.yaml", customYAML)
	code, out, stderr := run(t, "--adapters", path, "build", "rapid", "1", "-o", "tsv", "--header=false")
	expect.EQ(t, code, ExitOK, stderr)
	if !strings.HasPrefix(out, "Rapid barcoding 1 (full sequence)\tchemistry\tforward\t-\tRB01_full\t"+fullseq.RapidStartPrefix+"AAGAAAGTTGTCGGTGTCTTTGTG") {
		t.Fatalf("got %q", out)
	}
}

func TestInvalidCustomAdapters(t *testing.T) {
	path := writeFile(t, "dup.tsv", "Barcode 1 (reverse)\tx\tACGT\n")
	code, _, stderr := run(t, "--adapters", path, "list")
	expect.EQ(t, code, ExitUsage)
	if !strings.Contains(stderr, "duplicate name") {
		t.Fatalf("stderr: %s", stderr)
	}
}

func TestValidate(t *testing.T) {
	code, out, _ := run(t, "validate")
	expect.EQ(t, code, ExitOK)
	if !strings.Contains(out, "101 adapters (96 barcodes), 23 lint issues") {
		t.Fatalf("summary missing:\n%s", out)
	}
	if !strings.Contains(out, "Barcode 74 (reverse): name says reverse") {
		t.Fatalf("issue missing:\n%s", out)
	}

	code, _, _ = run(t, "validate", "--strict")
	expect.EQ(t, code, ExitFailure)
}

func TestConfigFileAndEnv(t *testing.T) {
	cfg := writeFile(t, "porecat.yaml", "output: tsv\n")
	code, out, _ := run(t, "--config", cfg, "list", "--barcodes", "--header=false")
	expect.EQ(t, code, ExitOK)
	if !strings.Contains(lines(out)[0], "\tbarcode\t") {
		t.Fatalf("config output format not applied: %q", lines(out)[0])
	}

	t.Setenv("PORECAT_OUTPUT", "jsonl")
	code, out, _ = run(t, "list")
	expect.EQ(t, code, ExitOK)
	expect.EQ(t, len(lines(out)), 101)

	// Flags beat the environment.
	code, out, _ = run(t, "list", "-o", "json")
	expect.EQ(t, code, ExitOK)
	var v []api.AdapterV1
	expect.NoError(t, json.Unmarshal([]byte(out), &v))
	expect.EQ(t, len(v), 101)
}

func TestBadConfig(t *testing.T) {
	cfg := writeFile(t, "bad.yaml", "scan:\n  threads: 0\n")
	code, _, stderr := run(t, "--config", cfg, "list")
	expect.EQ(t, code, ExitUsage)
	if !strings.Contains(stderr, "scan.threads") {
		t.Fatalf("stderr: %s", stderr)
	}
}

const insert = "GATTACAGGCTTAACGGATCCATGACCGTAGGTCAATTGCAGT"

func readsFile(t *testing.T) string {
	t.Helper()
	c, _ := catalog.Default()
	nb1, _ := fullseq.Native(c, 1)
	var b strings.Builder
	b.WriteString(">bc1\nTTGCGTACCAGT" + nb1.Start.Seq + insert + nb1.End.Seq + "ACGGT\n")
	b.WriteString(">plain\n" + insert + "\n")
	return writeFile(t, "reads.fa", b.String())
}

func TestScanJSONLAndBins(t *testing.T) {
	reads := readsFile(t)
	bins := filepath.Join(t.TempDir(), "bins")
	code, out, stderr := run(t, "scan", reads, "-o", "jsonl", "--threads", "2", "--out-dir", bins)
	expect.EQ(t, code, ExitOK, stderr)

	got := map[string]api.ReadV1{}
	for _, l := range lines(out) {
		var v api.ReadV1
		expect.NoError(t, json.Unmarshal([]byte(l), &v))
		got[v.ReadID] = v
	}
	expect.EQ(t, len(got), 2)
	expect.EQ(t, got["bc1"].Barcode, "repBC01")
	expect.EQ(t, got["bc1"].Identity, 100.0)
	expect.EQ(t, got["plain"].Barcode, "none")
	expect.EQ(t, len(got["plain"].Hits), 0)

	data, err := os.ReadFile(filepath.Join(bins, "repBC01.fasta"))
	expect.NoError(t, err)
	if !strings.HasPrefix(string(data), ">bc1\n") {
		t.Fatalf("bin file: %q", data)
	}
	_, err = os.Stat(filepath.Join(bins, "none.fasta"))
	expect.NoError(t, err)
}

func TestScanText(t *testing.T) {
	code, out, _ := run(t, "scan", readsFile(t), "--threads", "1")
	expect.EQ(t, code, ExitOK)
	ls := lines(out)
	expect.EQ(t, len(ls), 3)
	expect.EQ(t, ls[0], "read_id\tlength\tbarcode\tbest_start\tbest_end")
	if !strings.HasPrefix(ls[1], "bc1\t") || !strings.Contains(ls[1], "\trepBC01\t") {
		t.Fatalf("row: %q", ls[1])
	}
}

func TestScanMissingFile(t *testing.T) {
	code, _, stderr := run(t, "scan", filepath.Join(t.TempDir(), "nope.fa"))
	expect.EQ(t, code, ExitFailure)
	if !strings.Contains(stderr, "nope.fa") {
		t.Fatalf("stderr: %s", stderr)
	}
}

func TestScanCanceled(t *testing.T) {
	isolate(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := Run(ctx, []string{"scan", readsFile(t)}, &bytes.Buffer{}, &bytes.Buffer{})
	expect.EQ(t, code, ExitCanceled)
}

func TestHelpAndVersion(t *testing.T) {
	code, out, _ := run(t, "--help")
	expect.EQ(t, code, ExitOK)
	if !strings.Contains(out, "scan") || !strings.Contains(out, "build") {
		t.Fatalf("help:\n%s", out)
	}
	code, out, _ = run(t, "--version")
	expect.EQ(t, code, ExitOK)
	if !strings.Contains(out, "porecat version") {
		t.Fatalf("version: %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := run(t, "frobnicate")
	expect.EQ(t, code, ExitUsage)
	if !strings.Contains(stderr, "unknown command") {
		t.Fatalf("stderr: %s", stderr)
	}
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatalf("error %v carries no exit code", err)
	}
	return ee.code
}

func TestWriteFailuresExitIO(t *testing.T) {
	c, err := catalog.Default()
	expect.NoError(t, err)
	e := &env{cat: c, log: logging.Discard(), out: failingWriter{}, header: true}
	e.cfg.Output = "text"

	err = newValidateCmd(e).RunE(newValidateCmd(e), nil)
	expect.EQ(t, errors.Is(err, errDiskFull), true)
	expect.EQ(t, exitCode(t, err), ExitIO)

	expect.EQ(t, exitCode(t, e.writeCatalog(c.All())), ExitIO)

	show := newShowCmd(e)
	expect.EQ(t, exitCode(t, show.RunE(show, []string{"Barcode 1 (reverse)"})), ExitIO)

	// Through Run the buffered stdout fails on flush.
	isolate(t)
	var stderr bytes.Buffer
	expect.EQ(t, Run(context.Background(), []string{"validate"}, failingWriter{}, &stderr), ExitIO)
}
