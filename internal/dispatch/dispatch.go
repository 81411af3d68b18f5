package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"convertx/internal/format"
	"convertx/internal/logging"
	"convertx/internal/registry"
)

// Request carries everything a backend needs for one conversion. It is
// constructed per file and discarded after use.
type Request struct {
	InputPath    string
	InputFormat  string
	OutputFormat string
	OutputPath   string
	Options      map[string]string
	// Backend, when set, names the only backend allowed to serve the
	// request. Explicit selection is a contract, not a hint.
	Backend string
}

// Runner is a converter backend's executable entry point. On success the
// backend must have written a file at Request.OutputPath; on failure it
// returns a descriptive error without guaranteeing any partial file is
// absent.
type Runner interface {
	Convert(ctx context.Context, req Request) error
}

// Dispatcher routes conversion requests to registered backends.
type Dispatcher struct {
	registry *registry.Registry
	runners  map[string]Runner
	logger   *slog.Logger
}

// New constructs a dispatcher. Every registry descriptor must have a
// matching runner.
func New(reg *registry.Registry, runners map[string]Runner, logger *slog.Logger) (*Dispatcher, error) {
	if reg == nil {
		return nil, errors.New("dispatcher requires a registry")
	}
	for _, name := range reg.Names() {
		if _, ok := runners[name]; !ok {
			return nil, fmt.Errorf("no runner registered for backend %q", name)
		}
	}
	return &Dispatcher{
		registry: reg,
		runners:  runners,
		logger:   logging.WithComponent(logger, "dispatch"),
	}, nil
}

// Convert normalizes the request formats, picks a backend, and invokes it.
// It returns the chosen backend name alongside the outcome. Backend faults
// (including panics) never escape; they come back as ordinary errors so one
// file's fault cannot abort its siblings. The success path trusts the
// backend to have written OutputPath and does not stat it: some tools
// rename outputs post-hoc and a stricter check would produce false
// negatives.
func (d *Dispatcher) Convert(ctx context.Context, req Request) (string, error) {
	inputFormat := format.NormalizeInput(req.InputFormat)
	outputFormat := format.NormalizeOutput(req.OutputFormat)
	req.InputFormat = inputFormat
	req.OutputFormat = outputFormat

	candidates := d.registry.SupportingPair(inputFormat, outputFormat)

	if req.Backend != "" {
		if !contains(candidates, req.Backend) {
			if !d.registry.Has(req.Backend) {
				return "", fmt.Errorf("unknown backend %q", req.Backend)
			}
			return "", fmt.Errorf("backend %q does not support %s -> %s", req.Backend, inputFormat, outputFormat)
		}
		candidates = []string{req.Backend}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no backend supports %s -> %s", inputFormat, outputFormat)
	}

	// Registration order is the fixed priority order, so the first
	// candidate is the deterministic choice.
	chosen := candidates[0]
	runner := d.runners[chosen]

	d.logger.Debug("dispatching conversion",
		logging.String("backend", chosen),
		logging.String("input", inputFormat),
		logging.String("output", outputFormat),
	)

	if err := d.invoke(ctx, runner, req); err != nil {
		return chosen, fmt.Errorf("%s: %w", chosen, err)
	}
	return chosen, nil
}

// Candidates exposes the backends able to serve a raw input/output pair.
func (d *Dispatcher) Candidates(rawInput, rawOutput string) []string {
	return d.registry.SupportingPair(format.NormalizeInput(rawInput), format.NormalizeOutput(rawOutput))
}

func (d *Dispatcher) invoke(ctx context.Context, runner Runner, req Request) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("backend fault: %v", recovered)
		}
	}()
	return runner.Convert(ctx, req)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
