package format_test

import (
	"testing"

	"convertx/internal/format"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.docx", "report.docx"},
		{"strips path", "../../etc/passwd", "passwd"},
		{"absolute path", "/tmp/evil.sh", "evil.sh"},
		{"hostile punctuation", `a:b*c?.png`, "a-b-c.png"},
		{"collapses whitespace", "  my   file .txt ", "my file .txt"},
		{"control characters", "na\x00me.txt", "name.txt"},
		{"dot only", ".", ""},
		{"dot dot", "..", ""},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := format.SanitizeFileName(tc.in); got != tc.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestInputExtension(t *testing.T) {
	cases := map[string]string{
		"photo.JPEG":       "jpg",
		"notes.markdown":   "md",
		"archive.tar.gz":   "gz",
		"report.docx.docx": "docx",
		"noextension":      "",
	}
	for name, want := range cases {
		if got := format.InputExtension(name); got != want {
			t.Errorf("InputExtension(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestReplaceExtension(t *testing.T) {
	cases := []struct {
		name   string
		target string
		want   string
	}{
		{"report.docx", "pdf", "report.pdf"},
		// Only the final extension token is substituted.
		{"report.docx.docx", "pdf", "report.docx.pdf"},
		{"archive.tar.gz", "zip", "archive.tar.zip"},
		{"noextension", "pdf", "noextension.pdf"},
	}
	for _, tc := range cases {
		if got := format.ReplaceExtension(tc.name, tc.target); got != tc.want {
			t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tc.name, tc.target, got, tc.want)
		}
	}
}
