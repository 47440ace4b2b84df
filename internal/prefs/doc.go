// Package prefs holds the persisted user preferences.
//
// A Store keeps the preference record in memory and writes the whole record,
// as one JSON envelope, through a StateStorage after every mutation. Adapter
// bridges StateStorage onto storage.Storage so the record lives in the same
// namespace as every other key.
package prefs
