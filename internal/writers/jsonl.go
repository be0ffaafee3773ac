// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"porecat-core/adapter"
	"porecat/internal/jsonlutil"
)

// StartAdapterJSONLWriter streams each catalog record as one JSON line (v1).
func StartAdapterJSONLWriter(out io.Writer, bufSize int) (chan<- *adapter.Adapter, <-chan error) {
	return jsonlutil.Start[*adapter.Adapter](out, bufSize,
		func(enc *json.Encoder, a *adapter.Adapter) error {
			return enc.Encode(ToAPIAdapter(a))
		},
		IsBrokenPipe,
	)
}

// StartReadJSONLWriter streams each scanned read as one JSON line (v1).
func StartReadJSONLWriter(out io.Writer, bufSize int) (chan<- Read, <-chan error) {
	return jsonlutil.Start[Read](out, bufSize,
		func(enc *json.Encoder, r Read) error {
			return enc.Encode(ToAPIRead(r))
		},
		IsBrokenPipe,
	)
}
