package dispatch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"convertx/internal/dispatch"
	"convertx/internal/logging"
	"convertx/internal/registry"
)

type runnerFunc func(ctx context.Context, req dispatch.Request) error

func (f runnerFunc) Convert(ctx context.Context, req dispatch.Request) error { return f(ctx, req) }

func newDispatcher(t *testing.T, runners map[string]dispatch.Runner) *dispatch.Dispatcher {
	t.Helper()
	reg, err := registry.New(
		registry.Descriptor{Name: "alpha", Inputs: []string{"gif", "mp4"}, Outputs: []string{"mp4", "gif"}},
		registry.Descriptor{Name: "beta", Inputs: []string{"gif", "png"}, Outputs: []string{"gif", "png"}},
	)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	d, err := dispatch.New(reg, runners, logging.NewNop())
	if err != nil {
		t.Fatalf("dispatch.New: %v", err)
	}
	return d
}

func noopRunners() map[string]dispatch.Runner {
	noop := runnerFunc(func(context.Context, dispatch.Request) error { return nil })
	return map[string]dispatch.Runner{"alpha": noop, "beta": noop}
}

func TestNewRequiresRunnerPerDescriptor(t *testing.T) {
	reg, err := registry.New(registry.Descriptor{Name: "alpha", Inputs: []string{"gif"}, Outputs: []string{"mp4"}})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	if _, err := dispatch.New(reg, nil, logging.NewNop()); err == nil {
		t.Fatal("expected missing runner error")
	}
}

func TestConvertPicksFirstCandidateDeterministically(t *testing.T) {
	d := newDispatcher(t, noopRunners())

	// Both backends support gif -> gif; registration order decides.
	for i := 0; i < 10; i++ {
		chosen, err := d.Convert(context.Background(), dispatch.Request{InputFormat: "gif", OutputFormat: "gif"})
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		if chosen != "alpha" {
			t.Fatalf("chosen = %q, want alpha", chosen)
		}
	}
}

func TestConvertNormalizesFormats(t *testing.T) {
	var got dispatch.Request
	runners := map[string]dispatch.Runner{
		"alpha": runnerFunc(func(_ context.Context, req dispatch.Request) error {
			got = req
			return nil
		}),
		"beta": runnerFunc(func(context.Context, dispatch.Request) error { return nil }),
	}
	d := newDispatcher(t, runners)

	if _, err := d.Convert(context.Background(), dispatch.Request{InputFormat: ".GIF", OutputFormat: "MPEG"}); err == nil {
		t.Fatal("mpg output is unsupported, expected error")
	}

	chosen, err := d.Convert(context.Background(), dispatch.Request{InputFormat: ".GIF", OutputFormat: "MP4"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if chosen != "alpha" {
		t.Fatalf("chosen = %q", chosen)
	}
	if got.InputFormat != "gif" || got.OutputFormat != "mp4" {
		t.Fatalf("runner saw %q -> %q, want gif -> mp4", got.InputFormat, got.OutputFormat)
	}
}

func TestConvertExplicitBackendIsAContract(t *testing.T) {
	d := newDispatcher(t, noopRunners())

	chosen, err := d.Convert(context.Background(), dispatch.Request{
		InputFormat: "gif", OutputFormat: "gif", Backend: "beta",
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if chosen != "beta" {
		t.Fatalf("chosen = %q, want beta", chosen)
	}

	// A capable alternative exists (alpha handles gif -> mp4), but the
	// explicit choice must not fall back to it.
	_, err = d.Convert(context.Background(), dispatch.Request{
		InputFormat: "gif", OutputFormat: "mp4", Backend: "beta",
	})
	if err == nil || !strings.Contains(err.Error(), `backend "beta" does not support gif -> mp4`) {
		t.Fatalf("err = %v", err)
	}

	_, err = d.Convert(context.Background(), dispatch.Request{
		InputFormat: "gif", OutputFormat: "gif", Backend: "gamma",
	})
	if err == nil || !strings.Contains(err.Error(), `unknown backend "gamma"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestConvertNoCandidate(t *testing.T) {
	d := newDispatcher(t, noopRunners())

	_, err := d.Convert(context.Background(), dispatch.Request{InputFormat: "docx", OutputFormat: "pdf"})
	if err == nil || !strings.Contains(err.Error(), "no backend supports docx -> pdf") {
		t.Fatalf("err = %v", err)
	}
}

func TestConvertWrapsBackendErrors(t *testing.T) {
	sentinel := errors.New("tool exploded")
	runners := map[string]dispatch.Runner{
		"alpha": runnerFunc(func(context.Context, dispatch.Request) error { return sentinel }),
		"beta":  runnerFunc(func(context.Context, dispatch.Request) error { return nil }),
	}
	d := newDispatcher(t, runners)

	chosen, err := d.Convert(context.Background(), dispatch.Request{InputFormat: "mp4", OutputFormat: "gif"})
	if chosen != "alpha" {
		t.Fatalf("chosen = %q", chosen)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want wrapped sentinel", err)
	}
	if !strings.HasPrefix(err.Error(), "alpha: ") {
		t.Fatalf("err %q should carry the backend name", err)
	}
}

func TestConvertRecoversBackendPanics(t *testing.T) {
	runners := map[string]dispatch.Runner{
		"alpha": runnerFunc(func(context.Context, dispatch.Request) error { panic("boom") }),
		"beta":  runnerFunc(func(context.Context, dispatch.Request) error { return nil }),
	}
	d := newDispatcher(t, runners)

	_, err := d.Convert(context.Background(), dispatch.Request{InputFormat: "mp4", OutputFormat: "gif"})
	if err == nil || !strings.Contains(err.Error(), "backend fault: boom") {
		t.Fatalf("err = %v", err)
	}
}
