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

// FFmpeg wraps the ffmpeg CLI for audio and video conversions.
type FFmpeg struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// FFmpegName is the backend identifier used in descriptors and requests.
const FFmpegName = "ffmpeg"

// NewFFmpeg constructs an ffmpeg client.
func NewFFmpeg(binary string, timeout time.Duration, opts ...Option) (*FFmpeg, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &FFmpeg{binary: binary, timeout: timeout, exec: commandExecutor{}}
	applyOptions(&client.exec, opts)
	return client, nil
}

// Descriptor returns ffmpeg's static capability table.
func (c *FFmpeg) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:    FFmpegName,
		Inputs:  []string{"mp4", "mkv", "avi", "mov", "webm", "gif", "mp3", "wav", "flac", "ogg", "aac", "opus", "m4a", "mpg"},
		Outputs: []string{"mp4", "mkv", "avi", "mov", "webm", "gif", "mp3", "wav", "flac", "ogg", "aac", "opus", "m4a"},
	}
}

// Convert transcodes the input to the requested container/codec.
func (c *FFmpeg) Convert(ctx context.Context, req dispatch.Request) error {
	runCtx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"-hide_banner", "-nostdin", "-y", "-i", req.InputPath}
	if codec := req.Options["video_codec"]; codec != "" {
		args = append(args, "-c:v", codec)
	}
	if codec := req.Options["audio_codec"]; codec != "" {
		args = append(args, "-c:a", codec)
	}
	if bitrate := req.Options["bitrate"]; bitrate != "" {
		args = append(args, "-b:v", bitrate)
	}
	args = append(args, req.OutputPath)

	if err := c.exec.Run(runCtx, c.binary, args); err != nil {
		return fmt.Errorf("ffmpeg convert: %w", err)
	}
	return nil
}

// Option configures a backend client.
type Option func(*Executor)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(target *Executor) {
		if exec != nil {
			*target = exec
		}
	}
}

func applyOptions(exec *Executor, opts []Option) {
	for _, opt := range opts {
		opt(exec)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
