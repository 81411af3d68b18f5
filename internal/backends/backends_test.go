package backends

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"convertx/internal/dispatch"
)

// recordingExecutor captures the invocation instead of running anything.
type recordingExecutor struct {
	binary string
	args   []string
	run    func(ctx context.Context, binary string, args []string) error
}

func (r *recordingExecutor) Run(ctx context.Context, binary string, args []string) error {
	r.binary = binary
	r.args = args
	if r.run != nil {
		return r.run(ctx, binary, args)
	}
	return nil
}

func TestFFmpegArgs(t *testing.T) {
	exec := &recordingExecutor{}
	client, err := NewFFmpeg("ffmpeg", time.Minute, WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewFFmpeg: %v", err)
	}

	err = client.Convert(context.Background(), dispatch.Request{
		InputPath:    "/in/video.mkv",
		OutputFormat: "mp4",
		OutputPath:   "/out/video.mp4",
		Options: map[string]string{
			"video_codec": "libx264",
			"bitrate":     "2M",
		},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	want := []string{
		"-hide_banner", "-nostdin", "-y", "-i", "/in/video.mkv",
		"-c:v", "libx264", "-b:v", "2M", "/out/video.mp4",
	}
	if exec.binary != "ffmpeg" || !reflect.DeepEqual(exec.args, want) {
		t.Fatalf("invocation = %s %v", exec.binary, exec.args)
	}
}

func TestMagickArgs(t *testing.T) {
	exec := &recordingExecutor{}
	client, err := NewMagick("magick", time.Minute, WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewMagick: %v", err)
	}

	err = client.Convert(context.Background(), dispatch.Request{
		InputPath:  "/in/photo.heic",
		OutputPath: "/out/photo.jpg",
		Options: map[string]string{
			"quality": "85",
			"resize":  "1200x",
		},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, "-quality 85") || !strings.Contains(joined, "-resize 1200x") {
		t.Fatalf("args = %v", exec.args)
	}
	if exec.args[len(exec.args)-1] != "/out/photo.jpg" {
		t.Fatalf("output path must come last: %v", exec.args)
	}
}

func TestPandocArgs(t *testing.T) {
	exec := &recordingExecutor{}
	client, err := NewPandoc("pandoc", time.Minute, WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewPandoc: %v", err)
	}

	err = client.Convert(context.Background(), dispatch.Request{
		InputPath:    "/in/notes.md",
		OutputFormat: "html",
		OutputPath:   "/out/notes.html",
		Options:      map[string]string{"standalone": "true", "toc": "true"},
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, "--standalone") || !strings.Contains(joined, "--toc") {
		t.Fatalf("args = %v", exec.args)
	}
}

func TestSofficeRenamesProducedOutput(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "report.docx")
	outputPath := filepath.Join(dir, "quarterly.pdf")
	produced := filepath.Join(dir, "report.pdf")

	// LibreOffice names its output after the input base, not the requested
	// path, so Convert must rename the produced file into place.
	exec := &recordingExecutor{run: func(_ context.Context, _ string, _ []string) error {
		return os.WriteFile(produced, []byte("pdf"), 0o644)
	}}

	client, err := NewSoffice("soffice", time.Minute, WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewSoffice: %v", err)
	}

	err = client.Convert(context.Background(), dispatch.Request{
		InputPath:    inputPath,
		OutputFormat: "pdf",
		OutputPath:   outputPath,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("output not renamed into place: %v", err)
	}
	if _, err := os.Stat(produced); !os.IsNotExist(err) {
		t.Fatalf("tool-named file should be gone after rename, stat err = %v", err)
	}
}

func TestSofficeFailsWhenNoOutputProduced(t *testing.T) {
	dir := t.TempDir()
	client, err := NewSoffice("soffice", time.Minute, WithExecutor(&recordingExecutor{}))
	if err != nil {
		t.Fatalf("NewSoffice: %v", err)
	}

	err = client.Convert(context.Background(), dispatch.Request{
		InputPath:    filepath.Join(dir, "report.docx"),
		OutputFormat: "pdf",
		OutputPath:   filepath.Join(dir, "report.pdf"),
	})
	if err == nil {
		t.Fatal("expected failure when the tool produced nothing")
	}
}

func TestNewClientsRequireBinary(t *testing.T) {
	if _, err := NewFFmpeg("  ", 0); err == nil {
		t.Error("ffmpeg: expected error")
	}
	if _, err := NewMagick("", 0); err == nil {
		t.Error("magick: expected error")
	}
	if _, err := NewSoffice("", 0); err == nil {
		t.Error("soffice: expected error")
	}
	if _, err := NewPandoc("", 0); err == nil {
		t.Error("pandoc: expected error")
	}
}

func TestCommandExecutorReportsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := commandExecutor{}.Run(ctx, "sleep", []string{"5"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
	if !strings.Contains(err.Error(), "sleep timed out") {
		t.Fatalf("err = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("process not reaped promptly, Run took %v", elapsed)
	}
}

func TestConvertReportsTimedOutTool(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nsleep 5\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	client, err := NewFFmpeg(stub, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewFFmpeg: %v", err)
	}

	err = client.Convert(context.Background(), dispatch.Request{
		InputPath:    filepath.Join(dir, "in.mkv"),
		OutputFormat: "mp4",
		OutputPath:   filepath.Join(dir, "out.mp4"),
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("err = %v, want a timed out failure", err)
	}
}

func TestOutputTail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"\n\n", ""},
		{"line one\nline two\n", "line two"},
		{"error: something broke\n\n  \n", "error: something broke"},
	}
	for _, tc := range cases {
		if got := outputTail([]byte(tc.in)); got != tc.want {
			t.Errorf("outputTail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
