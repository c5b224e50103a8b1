// Package server holds the HTTP inspection server configuration.
//
// The serve command builds the Fiber application itself; this package
// only defines the configuration structure embedded by core/config.
package server
