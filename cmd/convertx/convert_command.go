package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"convertx/internal/api"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var targetFormat string
	var backend string
	var options []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "convert --to FORMAT FILE...",
		Short: "Convert one or more local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(targetFormat) == "" {
				return errors.New("--to is required")
			}

			parsedOptions, err := parseOptions(options)
			if err != nil {
				return err
			}

			files := make([]api.FileSubmission, 0, len(args))
			for _, arg := range args {
				data, err := os.ReadFile(arg)
				if err != nil {
					return fmt.Errorf("read %s: %w", arg, err)
				}
				files = append(files, api.FileSubmission{
					Name:    filepath.Base(arg),
					Content: base64.StdEncoding.EncodeToString(data),
				})
			}

			job, err := ctx.apiClient().SubmitJob(cmd.Context(), api.SubmitJobRequest{
				Files:        files,
				TargetFormat: targetFormat,
				Backend:      backend,
				Options:      parsedOptions,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, job)
			}
			printJob(cmd, job)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetFormat, "to", "", "Target format extension (required)")
	cmd.Flags().StringVar(&backend, "backend", "", "Force a specific converter backend")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Backend option as key=value (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func parseOptions(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	options := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q (expected key=value)", pair)
		}
		options[key] = value
	}
	return options, nil
}
