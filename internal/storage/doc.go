// Package storage provides the application's key-value persistence layer.
//
// The layer has three parts:
//
//   - KVEngine: the embedded engine contract, implemented by BadgerEngine.
//   - Handle: owns at most one live engine, opened lazily on first use and
//     bound to a fixed namespace directory.
//   - Storage: typed string/number/boolean/object access. KVStore implements
//     it on top of a Handle; MemoryStore is an in-process fake with the same
//     contract.
//
// Reads never fail. A missing key, a value stored with a different type, or
// an object that no longer decodes all read as absent (ok == false). Writes
// go straight to the engine and are durable when they return.
package storage
