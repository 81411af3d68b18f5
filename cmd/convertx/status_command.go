package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and dependency health",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.apiClient().Status(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			running := "stopped"
			if status.Running {
				running = "running"
			}
			fmt.Fprintf(out, "Daemon: %s (pid %d)\n", running, status.PID)
			fmt.Fprintf(out, "Job database: %s\n", status.JobDBPath)
			fmt.Fprintf(out, "Lock file: %s\n", status.LockFilePath)

			rows := make([][]string, 0, len(status.Dependencies))
			for _, dep := range status.Dependencies {
				state := "ok"
				if !dep.Available {
					state = "missing"
				}
				if colorize {
					if dep.Available {
						state = ansiGreen + state + ansiReset
					} else {
						state = ansiRed + state + ansiReset
					}
				}
				detail := dep.Detail
				if detail == "" {
					detail = dep.Description
				}
				rows = append(rows, []string{dep.Name, state, detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "State", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
