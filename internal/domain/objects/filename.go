package objects

import (
	"path"
	"strings"
	"unicode"
)

const reservedFileNameChars = `/\:*?"<>|`

// SanitizeFileName reduces a client supplied file name to a safe base name.
// Directory components, control characters and characters reserved on common
// filesystems are dropped. The result is empty when nothing usable remains.
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(reservedFileNameChars, r) {
			return -1
		}
		return r
	}, name)

	name = strings.TrimSpace(name)
	if strings.Trim(name, ".") == "" {
		return ""
	}
	return name
}
