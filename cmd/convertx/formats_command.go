package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "formats [extension]",
		Short: "Show supported conversion formats",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ctx.apiClient()

			if len(args) == 1 {
				targets, err := client.FormatTargets(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, targets)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Targets for .%s: %s\n", targets.Input, strings.Join(targets.Targets, ", "))
				rows := make([][]string, 0, len(targets.ByBackend))
				for _, backend := range sortedMapKeys(targets.ByBackend) {
					rows = append(rows, []string{backend, strings.Join(targets.ByBackend[backend], ", ")})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Backend", "Targets"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			}

			formats, err := client.Formats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, formats)
			}

			names := make([]string, 0, len(formats.Converters))
			for name := range formats.Converters {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				entry := formats.Converters[name]
				rows = append(rows, []string{
					name,
					strings.Join(entry.Inputs, ", "),
					strings.Join(entry.Outputs, ", "),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Converter", "Inputs", "Outputs"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Inputs:  %s\n", strings.Join(formats.SupportedInputs, ", "))
			fmt.Fprintf(out, "Outputs: %s\n", strings.Join(formats.SupportedOutputs, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func sortedMapKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
