package cmd

import (
	"strconv"

	"ticketclassifier/internal/catalog"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories tickets are classified into",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"#", "Category"})
		table.SetAutoWrapText(false)
		for i, c := range catalog.Categories() {
			table.Append([]string{strconv.Itoa(i + 1), c})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
