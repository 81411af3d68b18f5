package format

import "strings"

// Known synonym spellings mapped onto the canonical token the registry uses.
var aliases = map[string]string{
	"jpeg":     "jpg",
	"jpe":      "jpg",
	"tif":      "tiff",
	"htm":      "html",
	"markdown": "md",
	"yml":      "yaml",
	"mpeg":     "mpg",
	"oga":      "ogg",
	"tex":      "latex",
}

// Normalize maps a raw extension onto its canonical token. It is pure and
// total: leading dots, surrounding whitespace, and case are stripped, known
// synonyms are folded, and anything else passes through unchanged.
func Normalize(raw string) string {
	ext := strings.ToLower(strings.TrimSpace(raw))
	ext = strings.TrimPrefix(ext, ".")
	if canonical, ok := aliases[ext]; ok {
		return canonical
	}
	return ext
}

// NormalizeInput canonicalizes a source-file extension.
func NormalizeInput(raw string) string { return Normalize(raw) }

// NormalizeOutput canonicalizes a requested target extension.
func NormalizeOutput(raw string) string { return Normalize(raw) }

// Same reports whether two raw extensions denote the same format.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
