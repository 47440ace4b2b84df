package config

import "strings"

// Sanitize returns a copy of the config with secrets masked, for display.
func Sanitize(cfg *AppConfig) *AppConfig {
	sanitized := *cfg
	if sanitized.Storage.EncryptionKey != "" {
		sanitized.Storage.EncryptionKey = maskSecret(sanitized.Storage.EncryptionKey)
	}
	return &sanitized
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
