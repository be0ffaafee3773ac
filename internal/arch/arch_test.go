// internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

// list runs `go list -json ./...` in dir (relative to this package).
func list(t *testing.T, dir string) []pkg {
	t.Helper()
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list in %s: %v", dir, err)
	}
	var pkgs []pkg
	dec := json.NewDecoder(&out)
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		pkgs = append(pkgs, p)
	}
	return pkgs
}

func TestImportBoundaries(t *testing.T) {
	bans := map[string][]string{
		"porecat/internal/fasta": {
			"porecat/internal/scan", "porecat/internal/demux", "porecat/internal/writers",
			"porecat/internal/app", "porecat/cmd/",
		},
		"porecat/internal/scan": {
			"porecat/internal/demux", "porecat/internal/writers",
			"porecat/internal/app", "porecat/cmd/",
		},
		"porecat/internal/demux": {
			"porecat/internal/writers", "porecat/internal/app", "porecat/cmd/",
		},
		"porecat/internal/writers": {
			"porecat/internal/app", "porecat/internal/config",
			"porecat/internal/customfile", "porecat/cmd/",
		},
		"porecat/internal/config": {
			"porecat/internal/app", "porecat/internal/writers", "porecat/cmd/",
		},
		"porecat/pkg/api": {
			"porecat/internal/", "porecat/cmd/", "porecat-core/",
		},
	}

	var violations []string
	for _, p := range list(t, "../..") {
		if !strings.HasPrefix(p.ImportPath, "porecat/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}

// Core stays free of the application and of third-party modules.
func TestCoreIsSelfContained(t *testing.T) {
	var violations []string
	for _, p := range list(t, "../../core") {
		for _, dep := range p.Imports {
			if strings.HasPrefix(dep, "porecat-core/") {
				continue
			}
			if strings.HasPrefix(dep, "porecat/") || strings.Contains(strings.SplitN(dep, "/", 2)[0], ".") {
				violations = append(violations, p.ImportPath+" → "+dep)
			}
		}
	}
	if len(violations) > 0 {
		t.Fatalf("core imports outside the standard library:\n  %s", strings.Join(violations, "\n  "))
	}
}
