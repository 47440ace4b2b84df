// Package config defines the application configuration structure.
//
// Values are loaded by infra/confloader on top of Default() and checked by
// Verify before any component is built from them.
package config
