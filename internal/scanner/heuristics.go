package scanner

import "strings"

// DefaultKeywords are filename fragments that suggest flag or credential
// material.
func DefaultKeywords() []string {
	return []string{
		"flag", "secret", "password", "key", "hint",
		"token", "admin", "config", "backup", "hidden",
	}
}

// DefaultExtensions are leftover/backup extensions worth a second look.
func DefaultExtensions() []string {
	return []string{".bak", ".old", ".tmp", ".swp", ".orig"}
}

// IsPotentialFlag reports whether a filename looks like it could hold a flag:
// it contains one of the keywords or ends in one of the extensions. Matching
// is case-insensitive.
func IsPotentialFlag(name string, keywords, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
