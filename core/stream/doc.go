// Package stream provides the raw byte layer under the asset deserializer.
//
// A Buffer holds one file fully in memory for the duration of a single
// parse and is released deterministically afterwards; a Reader is a
// sticky-error cursor over that buffer. Assets routinely reach tens of
// megabytes and loads number in the tens of thousands, so buffer lifetime
// is a contract, not a hint.
package stream
