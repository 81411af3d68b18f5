package backends

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"convertx/internal/dispatch"
	"convertx/internal/registry"
)

// Magick wraps the ImageMagick CLI for image conversions.
type Magick struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// MagickName is the backend identifier used in descriptors and requests.
const MagickName = "magick"

// NewMagick constructs an ImageMagick client.
func NewMagick(binary string, timeout time.Duration, opts ...Option) (*Magick, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("magick binary required")
	}
	client := &Magick{binary: binary, timeout: timeout, exec: commandExecutor{}}
	applyOptions(&client.exec, opts)
	return client, nil
}

// Descriptor returns ImageMagick's static capability table.
func (c *Magick) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:    MagickName,
		Inputs:  []string{"jpg", "png", "webp", "gif", "bmp", "tiff", "heic", "avif", "ico", "svg"},
		Outputs: []string{"jpg", "png", "webp", "gif", "bmp", "tiff", "avif", "ico", "pdf"},
	}
}

// Convert renders the input image in the requested format.
func (c *Magick) Convert(ctx context.Context, req dispatch.Request) error {
	runCtx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{req.InputPath}
	if quality := req.Options["quality"]; quality != "" {
		args = append(args, "-quality", quality)
	}
	if resize := req.Options["resize"]; resize != "" {
		args = append(args, "-resize", resize)
	}
	args = append(args, req.OutputPath)

	if err := c.exec.Run(runCtx, c.binary, args); err != nil {
		return fmt.Errorf("magick convert: %w", err)
	}
	return nil
}
