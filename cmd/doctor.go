package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ticketclassifier/internal/app"
	"ticketclassifier/internal/config"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	doctorJSON         bool
	doctorScriptConfig string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and runtime environment",
	Long: `Reports the completion provider settings, which required environment
variables are set, proxy variables present and linked dependency versions.
Exits non-zero when required settings are missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		report := app.SystemCheck(cfg)
		out := cmd.OutOrStdout()

		if doctorJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printReport(cmd, report)
		}

		if doctorScriptConfig != "" {
			if _, err := config.LoadScriptConfig(doctorScriptConfig); err != nil {
				fmt.Fprintf(out, "%s %v\n", color.RedString("Script config:"), err)
				return err
			}
			fmt.Fprintf(out, "%s %s is valid\n", color.GreenString("Script config:"), doctorScriptConfig)
		}

		if !report.Healthy() {
			return fmt.Errorf("missing required settings: %s", strings.Join(report.MissingEnv, ", "))
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, r app.SystemReport) {
	out := cmd.OutOrStdout()
	status := color.GreenString(r.Status)
	if !r.Healthy() {
		status = color.RedString(r.Status)
	}
	fmt.Fprintf(out, "Status:      %s\n", status)
	fmt.Fprintf(out, "Go version:  %s\n", r.GoVersion)
	fmt.Fprintf(out, "Provider:    %s\n", r.Provider)
	fmt.Fprintf(out, "Model:       %s\n", r.Model)
	fmt.Fprintf(out, "API version: %s\n", r.APIVersion)
	fmt.Fprintf(out, "Endpoint:    %s\n", r.Endpoint)
	if len(r.ProxyEnv) > 0 {
		fmt.Fprintf(out, "Proxy vars:  %s\n", strings.Join(r.ProxyEnv, ", "))
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Setting", "State"})
	names := make([]string, 0, len(r.Environment))
	for name := range r.Environment {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		state := "set"
		if !r.Environment[name] {
			state = "MISSING"
		}
		table.Append([]string{name, state})
	}
	modules := make([]string, 0, len(r.Modules))
	for m := range r.Modules {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	for _, m := range modules {
		table.Append([]string{m, r.Modules[m]})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Print the report as JSON")
	doctorCmd.Flags().StringVar(&doctorScriptConfig, "script-config", "", "Also validate this config.ini for classify-file")
}
