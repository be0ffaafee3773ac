// pkg/api/adapters_v1.go
package api

// AdapterV1 is the stable JSON/JSONL schema for one catalog entry.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type AdapterV1 struct {
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`        // "chemistry" | "barcode"
	Orientation    string  `json:"orientation"` // "forward" | "reverse" | "unknown"
	BarcodeName    string  `json:"barcode_name,omitempty"`
	StartLabel     string  `json:"start_label,omitempty"`
	StartSeq       string  `json:"start_seq,omitempty"`
	EndLabel       string  `json:"end_label,omitempty"`
	EndSeq         string  `json:"end_seq,omitempty"`
	BestStartScore float64 `json:"best_start_score"`
	BestEndScore   float64 `json:"best_end_score"`
}

// HitV1 is one adapter placement inside a read.
type HitV1 struct {
	Adapter  string  `json:"adapter"`
	Side     string  `json:"side"` // "start" | "end"
	Pos      int     `json:"pos"`
	Length   int     `json:"length"`
	Identity float64 `json:"identity"`
}

// ReadV1 is the stable schema for one scanned read.
type ReadV1 struct {
	ReadID     string  `json:"read_id"`
	SourceFile string  `json:"source_file,omitempty"`
	Length     int     `json:"length"`
	Barcode    string  `json:"barcode"`
	Identity   float64 `json:"barcode_identity,omitempty"`
	Hits       []HitV1 `json:"hits"`
}
