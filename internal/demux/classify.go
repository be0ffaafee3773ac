// internal/demux/classify.go
package demux

import (
	"porecat-core/adapter"
	"porecat/internal/scan"
)

// NoBin names reads without a confident barcode call.
const NoBin = "none"

// Call is the barcode decision for one read.
type Call struct {
	Bin      string           // BarcodeName of the winner, or NoBin
	Barcode  *adapter.Adapter // nil when Bin == NoBin
	Identity float64          // best barcode identity
	RunnerUp float64          // best identity of any other barcode
}

// Classify picks the barcode with the highest identity among barcode hits.
// Hits are grouped by BarcodeName so the two orientations of one barcode do
// not compete with each other. The read is binned only when the winner
// reaches threshold and beats the runner-up by at least diff.
func Classify(hits []scan.Hit, threshold, diff float64) Call {
	best := map[string]scan.Hit{}
	var order []string
	for _, h := range hits {
		if !h.Adapter.IsBarcode() {
			continue
		}
		name := h.Adapter.BarcodeName()
		cur, ok := best[name]
		if !ok {
			order = append(order, name)
		}
		if !ok || h.Identity > cur.Identity {
			best[name] = h
		}
	}

	var (
		win      string
		top, sec float64
	)
	for _, name := range order {
		id := best[name].Identity
		switch {
		case win == "" || id > top:
			if win != "" {
				sec = top
			}
			win, top = name, id
		case id > sec:
			sec = id
		}
	}

	c := Call{Bin: NoBin, Identity: top, RunnerUp: sec}
	if win == "" || top < threshold || top-sec < diff {
		return c
	}
	c.Bin = win
	c.Barcode = best[win].Adapter
	return c
}
