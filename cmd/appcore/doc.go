// Package main provides the entry point for appcore.
//
// appcore hosts the app core: the namespaced key-value storage, the
// persisted preferences and the one-time bootstrap of dependent clients.
// The run command keeps it alive for a UI shell; the other commands
// inspect and edit local state.
package main
