package backends_test

import (
	"reflect"
	"testing"

	"convertx/internal/backends"
	"convertx/internal/registry"
	"convertx/internal/testsupport"
)

func TestSetDescriptorPriorityOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	set, err := backends.NewSet(cfg)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	reg, err := registry.New(set.Descriptors()...)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	want := []string{backends.FFmpegName, backends.MagickName, backends.SofficeName, backends.PandocName}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}

	runners := set.Runners()
	for _, name := range want {
		if runners[name] == nil {
			t.Errorf("no runner for %q", name)
		}
	}
}

func TestOverlappingPairsResolveByPriority(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	set, err := backends.NewSet(cfg)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	reg, err := registry.New(set.Descriptors()...)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}

	// gif -> gif is served by both ffmpeg and magick; ffmpeg registered first.
	if got := reg.SupportingPair("gif", "gif"); len(got) < 2 || got[0] != backends.FFmpegName {
		t.Fatalf("SupportingPair(gif, gif) = %v", got)
	}
	// docx -> pdf is served by both soffice and pandoc; soffice registered first.
	if got := reg.SupportingPair("docx", "pdf"); len(got) != 2 || got[0] != backends.SofficeName || got[1] != backends.PandocName {
		t.Fatalf("SupportingPair(docx, pdf) = %v", got)
	}
}
