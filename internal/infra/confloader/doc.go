// Package confloader loads layered configuration with koanf.
//
// Sources, highest priority first:
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (APPCORE_SECTION_KEY)
//  3. YAML configuration file
//  4. Defaults already present in the target struct
//
// Watcher reports edits to the configuration file so long-running commands
// can reapply the settings that are safe to change at runtime.
package confloader
