package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"convertx/internal/api"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q missing %q", haystack, needle)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected already-exists error")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestParseOptions(t *testing.T) {
	options, err := parseOptions([]string{"quality=85", "resize=1200x", "flag="})
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if options["quality"] != "85" || options["resize"] != "1200x" || options["flag"] != "" {
		t.Fatalf("options = %v", options)
	}

	if _, err := parseOptions([]string{"noequals"}); err == nil {
		t.Fatal("expected error for malformed option")
	}
	if _, err := parseOptions([]string{"=value"}); err == nil {
		t.Fatal("expected error for empty key")
	}
	if options, err := parseOptions(nil); err != nil || options != nil {
		t.Fatalf("empty input: %v %v", options, err)
	}
}

func TestFormatsCommandRendersMatrix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/formats" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(api.FormatsResponse{
			Converters: map[string]api.ConverterFormats{
				"ffmpeg": {Inputs: []string{"mkv", "mp4"}, Outputs: []string{"mp4"}},
			},
			SupportedInputs:  []string{"mkv", "mp4"},
			SupportedOutputs: []string{"mp4"},
		})
	}))
	defer server.Close()

	out, err := runCLI(t, "formats", "--server", server.URL)
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	requireContains(t, out, "ffmpeg")
	requireContains(t, out, "mkv, mp4")
	requireContains(t, out, "Inputs:  mkv, mp4")
}

func TestJobsCommandListsJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "unauthorized"})
			return
		}
		_ = json.NewEncoder(w).Encode(api.JobListResponse{Jobs: []api.JobResponse{{
			ID:             "job-1",
			Status:         "partial",
			NumFiles:       3,
			CompletedFiles: 2,
			TargetFormat:   "pdf",
		}}})
	}))
	defer server.Close()

	out, err := runCLI(t, "jobs", "--server", server.URL, "--token", "test-token")
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	requireContains(t, out, "job-1")
	requireContains(t, out, "partial")
	requireContains(t, out, "2/3")

	if _, err := runCLI(t, "jobs", "--server", server.URL, "--token", "bad"); err == nil {
		t.Fatal("expected unauthorized error")
	}
}

func TestFetchCommandWritesArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs/job-1/files/report.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("pdf bytes"))
	}))
	defer server.Close()

	target := filepath.Join(t.TempDir(), "out.pdf")
	out, err := runCLI(t, "fetch", "job-1", "report.pdf",
		"--server", server.URL, "--token", "test-token", "--output", target)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "Wrote "+target)

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Fatalf("artifact = %q", data)
	}
}

func TestConvertCommandRequiresTarget(t *testing.T) {
	input := filepath.Join(t.TempDir(), "a.docx")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if _, err := runCLI(t, "convert", input); err == nil || !strings.Contains(err.Error(), "--to is required") {
		t.Fatalf("err = %v", err)
	}
}
