package logger

import (
	"log/slog"
	"strings"
)

// Attribute keys containing any of these are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"encryption_key",
	"api_key",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks bearer values anywhere and fully redacts attributes
// whose key looks sensitive. Groups are walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if v == "" {
			return a
		}
		if strings.HasPrefix(v, "Bearer ") {
			return slog.String(a.Key, "Bearer "+redactedValue)
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// IsSensitiveKey reports whether an attribute key suggests secret content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(k, p) {
			return true
		}
	}
	return false
}
