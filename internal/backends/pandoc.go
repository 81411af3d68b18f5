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

// Pandoc wraps the pandoc CLI for markup document conversions.
type Pandoc struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// PandocName is the backend identifier used in descriptors and requests.
const PandocName = "pandoc"

// NewPandoc constructs a pandoc client.
func NewPandoc(binary string, timeout time.Duration, opts ...Option) (*Pandoc, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("pandoc binary required")
	}
	client := &Pandoc{binary: binary, timeout: timeout, exec: commandExecutor{}}
	applyOptions(&client.exec, opts)
	return client, nil
}

// Descriptor returns pandoc's static capability table.
func (c *Pandoc) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:    PandocName,
		Inputs:  []string{"md", "html", "rst", "latex", "epub", "docx", "odt"},
		Outputs: []string{"pdf", "html", "md", "docx", "odt", "epub", "txt", "rst"},
	}
}

// Convert renders the input document in the requested format.
func (c *Pandoc) Convert(ctx context.Context, req dispatch.Request) error {
	runCtx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{req.InputPath, "-o", req.OutputPath}
	if req.Options["standalone"] == "true" {
		args = append(args, "--standalone")
	}
	if req.Options["toc"] == "true" {
		args = append(args, "--toc")
	}

	if err := c.exec.Run(runCtx, c.binary, args); err != nil {
		return fmt.Errorf("pandoc convert: %w", err)
	}
	return nil
}
