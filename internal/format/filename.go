package format

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var nameReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-",
	"?", "", "\"", "", "<", "", ">", "", "|", "",
)

// SanitizeFileName strips path separators, shell-hostile punctuation, and
// control characters from a declared file name and NFC-normalizes the rest.
// The result may be empty; callers treat that as an invalid name.
func SanitizeFileName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	// Keep only the base component of whatever the caller declared.
	name = filepath.Base(name)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	name = nameReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	return strings.TrimSpace(name)
}

// InputExtension derives the canonical extension from a sanitized file name.
func InputExtension(name string) string {
	return Normalize(filepath.Ext(name))
}

// ReplaceExtension computes the output file name by substituting the last
// occurrence of the name's extension token with the target extension. Only
// the final occurrence is replaced, so "report.docx.docx" converting to pdf
// becomes "report.docx.pdf".
func ReplaceExtension(name, targetExt string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return name + "." + targetExt
	}
	idx := strings.LastIndex(name, ext)
	return name[:idx] + "." + targetExt
}
