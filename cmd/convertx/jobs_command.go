package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"convertx/internal/api"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "jobs [id]",
		Short: "List your jobs or inspect one job",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ctx.apiClient()

			if len(args) == 1 {
				job, err := client.Job(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, job)
				}
				printJob(cmd, job)
				return nil
			}

			list, err := client.Jobs(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, list)
			}

			rows := make([][]string, 0, len(list.Jobs))
			for _, job := range list.Jobs {
				rows = append(rows, []string{
					job.ID,
					job.Status,
					job.TargetFormat,
					strconv.Itoa(job.CompletedFiles) + "/" + strconv.Itoa(job.NumFiles),
					job.CreatedAt,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Status", "Target", "Files", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

// printJob renders one job with its per-file outcomes.
func printJob(cmd *cobra.Command, job *api.JobResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Job %s: %s (%d/%d files, target %s)\n",
		job.ID, job.Status, job.CompletedFiles, job.NumFiles, job.TargetFormat)

	rows := make([][]string, 0, len(job.Files))
	for _, file := range job.Files {
		outcome := "ok"
		detail := file.OutputFileName
		if file.Error != "" {
			outcome = "failed"
			detail = file.Error
		}
		rows = append(rows, []string{file.FileName, outcome, detail})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Outcome", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
}
