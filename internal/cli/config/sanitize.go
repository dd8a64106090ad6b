package config

import "strings"

// Sanitize returns a copy of the settings with the password masked.
//
// This is used for displaying configuration without exposing secrets.
func Sanitize(s *Settings) *Settings {
	sanitized := *s

	if sanitized.Password != "" {
		sanitized.Password = maskSecret(sanitized.Password)
	}

	return &sanitized
}

// SanitizeProfile masks a profile password, keeping the sealed marker
// visible.
func SanitizeProfile(p Profile) Profile {
	switch {
	case p.Password == "":
	case IsSealed(p.Password):
		p.Password = sealedPrefix + "***"
	default:
		p.Password = maskSecret(p.Password)
	}
	return p
}

// maskSecret masks a secret value for safe display.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:1] + strings.Repeat("*", len(s)-2) + s[len(s)-1:]
}
