package backends

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

type commandExecutor struct{}

// maxStderrTail bounds how much tool output is kept for failure reasons.
const maxStderrTail = 2048

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	// Give the tool a moment to exit after SIGKILL-on-cancel before Wait
	// gives up, so no zombie survives a timeout.
	cmd.WaitDelay = 5 * time.Second

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out: %w", binary, context.DeadlineExceeded)
	}

	tail := outputTail(output.Bytes())
	if tail == "" {
		return fmt.Errorf("%s: %w", binary, err)
	}
	return fmt.Errorf("%s: %w: %s", binary, err, tail)
}

func outputTail(raw []byte) string {
	if len(raw) > maxStderrTail {
		raw = raw[len(raw)-maxStderrTail:]
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
