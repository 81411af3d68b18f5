package backends

import (
	"fmt"

	"convertx/internal/config"
	"convertx/internal/dispatch"
	"convertx/internal/registry"
)

// Set bundles every configured backend client in fixed priority order.
// Descriptors are registered even when a binary is missing so capability
// reporting reflects configuration; conversions through a missing tool fail
// per file at invocation time.
type Set struct {
	ffmpeg  *FFmpeg
	magick  *Magick
	soffice *Soffice
	pandoc  *Pandoc
}

// NewSet builds clients for all known backends from configuration.
func NewSet(cfg *config.Config) (*Set, error) {
	timeout := cfg.ConvertTimeout()

	ffmpeg, err := NewFFmpeg(cfg.Tools.FFmpegBinary, timeout)
	if err != nil {
		return nil, fmt.Errorf("backend set: %w", err)
	}
	magick, err := NewMagick(cfg.Tools.MagickBinary, timeout)
	if err != nil {
		return nil, fmt.Errorf("backend set: %w", err)
	}
	soffice, err := NewSoffice(cfg.Tools.SofficeBinary, timeout)
	if err != nil {
		return nil, fmt.Errorf("backend set: %w", err)
	}
	pandoc, err := NewPandoc(cfg.Tools.PandocBinary, timeout)
	if err != nil {
		return nil, fmt.Errorf("backend set: %w", err)
	}

	return &Set{ffmpeg: ffmpeg, magick: magick, soffice: soffice, pandoc: pandoc}, nil
}

// Descriptors returns capability descriptors in selection priority order.
func (s *Set) Descriptors() []registry.Descriptor {
	return []registry.Descriptor{
		s.ffmpeg.Descriptor(),
		s.magick.Descriptor(),
		s.soffice.Descriptor(),
		s.pandoc.Descriptor(),
	}
}

// Runners returns the executable entry points keyed by backend name.
func (s *Set) Runners() map[string]dispatch.Runner {
	return map[string]dispatch.Runner{
		FFmpegName:  s.ffmpeg,
		MagickName:  s.magick,
		SofficeName: s.soffice,
		PandocName:  s.pandoc,
	}
}
