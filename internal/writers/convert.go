// internal/writers/convert.go
package writers

import (
	"porecat-core/adapter"
	"porecat/internal/demux"
	"porecat/internal/scan"
	"porecat/pkg/api"
)

// Read is one scanned read together with its barcode call.
type Read struct {
	scan.ReadResult
	Call demux.Call
}

// Bin returns the call's bin, NoBin when no call was made.
func (r Read) Bin() string {
	if r.Call.Bin == "" {
		return demux.NoBin
	}
	return r.Call.Bin
}

// ToAPIAdapter maps a catalog record to the v1 wire type.
func ToAPIAdapter(a *adapter.Adapter) api.AdapterV1 {
	v := api.AdapterV1{
		Name:           a.Name,
		Kind:           a.Kind.String(),
		Orientation:    a.Orientation.String(),
		StartLabel:     a.Start.Label,
		StartSeq:       a.Start.Seq,
		EndLabel:       a.End.Label,
		EndSeq:         a.End.Seq,
		BestStartScore: a.BestStartScore,
		BestEndScore:   a.BestEndScore,
	}
	if a.IsBarcode() {
		v.BarcodeName = a.BarcodeName()
	}
	return v
}

// ToAPIRead maps a scanned read to the v1 wire type.
func ToAPIRead(r Read) api.ReadV1 {
	v := api.ReadV1{
		ReadID:     r.Record.ID,
		SourceFile: r.SourceFile,
		Length:     len(r.Record.Seq),
		Barcode:    r.Bin(),
		Hits:       make([]api.HitV1, 0, len(r.Hits)),
	}
	if r.Call.Barcode != nil {
		v.Identity = r.Call.Identity
	}
	for _, h := range r.Hits {
		v.Hits = append(v.Hits, api.HitV1{
			Adapter:  h.Adapter.Name,
			Side:     h.Side.String(),
			Pos:      h.Pos,
			Length:   h.Length,
			Identity: h.Identity,
		})
	}
	return v
}

// bestHit returns the highest-identity hit on side; the earliest wins ties.
func bestHit(hits []scan.Hit, side scan.Side) (scan.Hit, bool) {
	var (
		best scan.Hit
		ok   bool
	)
	for _, h := range hits {
		if h.Side != side {
			continue
		}
		if !ok || h.Identity > best.Identity {
			best, ok = h, true
		}
	}
	return best, ok
}
