// Package scan is the reference aligner for the adapter catalog: it searches
// each read's ends for every adapter's start and end sequences, reports hits,
// and aggregates best scores per adapter.
//
// Workers never write to catalog records. They produce read-local scores that
// a Board merges (keep-max) under a lock; Board.Apply writes the totals back
// once the run is over.
package scan
