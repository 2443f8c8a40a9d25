//go:build !windows

package scanner

import "strings"

// isHidden reports whether the entry is hidden by unix convention: its name
// starts with a dot.
func isHidden(_ string, name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
