package logging

import (
	"log/slog"
	"strings"
)

// sensitiveKeys are attribute names whose values are never written verbatim.
var sensitiveKeys = []string{
	"api_key", "apikey", "x-api-key",
	"secret", "token", "password", "authorization",
}

// redactAttr is a slog ReplaceAttr hook that masks sensitive attributes.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if !isSensitiveKey(a.Key) {
		return a
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, MaskKey(a.Value.String()))
	}
	return slog.String(a.Key, "***")
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// MaskKey returns a form of a secret that is safe to print: the first four
// characters followed by "***" for values long enough to keep that
// unguessable, and just "***" otherwise.
//
//	MaskKey("dev-admin-key-change-me") == "dev-***"
func MaskKey(key string) string {
	if len(key) < 12 {
		return "***"
	}
	return key[:4] + "***"
}
