// Package discovery scans content trees for assets of interest.
//
// Candidate files are probed cheaply first: a tester's raw byte marker
// must appear somewhere in the container before the file is parsed at
// all. Survivors are fully loaded and their template export's class
// ancestry is walked, crossing into other containers as needed, until a
// known base class confirms the asset's kind or a depth cap gives up.
//
// Per-asset loader failures are logged and skipped so one broken file
// cannot abort a scan of thousands.
package discovery
