//go:build windows

package scanner

import (
	"strings"

	"golang.org/x/sys/windows"
)

// isHidden reports whether the entry carries FILE_ATTRIBUTE_HIDDEN. Dotfiles
// still count as hidden so unix-style stashes on a Windows volume are not
// missed; if the attribute lookup fails the dotfile convention is the
// fallback.
func isHidden(path string, name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
