package format_test

import (
	"testing"

	"convertx/internal/format"
)

func TestNormalizeFoldsAliases(t *testing.T) {
	cases := map[string]string{
		"jpeg":     "jpg",
		"JPEG":     "jpg",
		".jpe":     "jpg",
		"tif":      "tiff",
		"htm":      "html",
		"markdown": "md",
		"yml":      "yaml",
		"mpeg":     "mpg",
		"oga":      "ogg",
		"tex":      "latex",
		" .PNG ":   "png",
		"mp4":      "mp4",
		"":         "",
		".":        "",
	}
	for raw, want := range cases {
		if got := format.Normalize(raw); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, raw := range []string{"jpeg", "tif", ".HTM", "mp4", "weird"} {
		once := format.Normalize(raw)
		if twice := format.Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", raw, twice, once)
		}
	}
}

func TestSame(t *testing.T) {
	if !format.Same("JPEG", ".jpg") {
		t.Error("expected JPEG and .jpg to denote the same format")
	}
	if format.Same("png", "jpg") {
		t.Error("png and jpg should differ")
	}
}
