// Package daemon hosts the long-running etymap process: it enforces
// single-instance execution, owns the store and session manager, and serves
// the HTTP API the CLI talks to.
package daemon
