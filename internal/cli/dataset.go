package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxatlas/inboxatlas/pkg/dataset"
)

// newDatasetCmd creates the dataset command group.
func newDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate and inspect the synthetic email dataset",
	}

	cmd.AddCommand(newDatasetGenerateCmd())
	cmd.AddCommand(newDatasetStatsCmd())

	return cmd
}

// newDatasetGenerateCmd creates the "dataset generate" subcommand.
func newDatasetGenerateCmd() *cobra.Command {
	var (
		output string
		limit  int
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic golden dataset of triage examples",
		Long: `Generate produces deterministic synthetic emails across the full
category hierarchy (Work, Hockey, Personal, Finance, Shopping,
Organizational, Travel) with expected classifications attached. The
same seed always yields the same dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasetGenerate(cmd.Context(), output, limit, seed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "emails.json", "output file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 300, "cap the number of examples (0 = full mix)")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed for reproducible output")

	return cmd
}

func runDatasetGenerate(ctx context.Context, output string, limit int, seed uint64) error {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	examples := dataset.Generate(limit, seed)
	if err := dataset.Write(output, examples); err != nil {
		return err
	}

	p.done(fmt.Sprintf("Generated %d examples", len(examples)))
	printSuccess("Wrote %d examples", len(examples))
	printFile(output)
	printNextStep("Inspect the distribution", fmt.Sprintf("inboxatlas dataset stats %s", output))
	return nil
}

// newDatasetStatsCmd creates the "dataset stats" subcommand.
func newDatasetStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file]",
		Short: "Show the category distribution of a dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			examples, err := dataset.Load(args[0])
			if err != nil {
				return err
			}

			requiresResponse := 0
			for _, ex := range examples {
				if ex.Outputs.RequiresResponse {
					requiresResponse++
				}
			}

			printInfo("%d examples", len(examples))
			printDetail("%d require a response", requiresResponse)
			printNewline()
			for _, c := range dataset.Distribution(examples) {
				printKeyValue(c.Category, fmt.Sprintf("%d", c.Count))
			}
			return nil
		},
	}
}
