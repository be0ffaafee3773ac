// Package writers turns catalog entries and scanned reads into serialized
// outputs.
//
// Design:
//   - Writers own all presentation knowledge (text, TSV, JSON/JSONL, FASTA).
//   - Core packages stay domain-only; the scanner stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
