// Package bootstrap wires the application's dependent clients exactly once.
//
// A Registry starts Uninitialized. Bootstrap builds every dependent client
// from the already-live storage layer and moves the registry to Initialized,
// where it stays for the rest of the process. Storage is usable in either
// state; dependent clients are not, and asking for one early returns
// ErrNotInitialized so a missing Bootstrap call surfaces immediately.
package bootstrap
