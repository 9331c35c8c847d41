package cmd

import (
	"fmt"

	"ticketclassifier/internal/clix"
	"ticketclassifier/internal/models"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <description...>",
	Short: "Classify one ticket description",
	Long: `Classifies a single description with the single-item profile and prints the
category. Pass "-" to read the description from stdin.`,
	Annotations: map[string]string{needsApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		description, err := clix.ParseDescription(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		result := appInstance.SingleCategorizer.Classify(cmd.Context(), description)
		fmt.Fprintln(cmd.OutOrStdout(), result.Label())
		if result.Outcome == models.OutcomeError {
			return fmt.Errorf("classification failed: %w", result.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
