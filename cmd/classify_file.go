package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ticketclassifier/internal/clix"
	"ticketclassifier/internal/config"
	"ticketclassifier/internal/costtracker"
	"ticketclassifier/internal/models"
	"ticketclassifier/internal/services"
	"ticketclassifier/internal/ticketcsv"
	"ticketclassifier/internal/util"
	"ticketclassifier/pkg/categorizer"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const (
	defaultInputFile  = "NHS.UK ServiceNow Cases Q1 2025.csv"
	defaultOutputFile = "NHS.UK ServiceNow Cases Q1 2025 - Categorized.csv"
	defaultScriptINI  = "config.ini"

	// scriptRowCap is the fixed number of rows classify-file processes per run.
	scriptRowCap = 20
	previewRunes = 100
)

// scriptDelay is the pause after each row that made a completion call.
var scriptDelay = time.Second

// newScriptCompletion builds the completion client for classify-file.
var newScriptCompletion = func(cc config.ClientConfig, tracker costtracker.CostTracker) (services.CompletionService, error) {
	return services.NewOpenAIProvider(cc, tracker, nil)
}

var classifyFileCmd = &cobra.Command{
	Use:   "classify-file",
	Short: "Classify the first 20 tickets of a local CSV file",
	Long: `Reads the input CSV and the [azure_openai] section of config.ini, classifies
the first 20 rows and writes them with a Category column to the output CSV.
Nothing is written when the input, the config or the Description column is
missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := clix.ParseScriptPaths(cmd.Flags())
		if err != nil {
			return err
		}
		return runClassifyFile(cmd, paths)
	},
}

func runClassifyFile(cmd *cobra.Command, paths clix.ScriptPaths) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Starting ticket classification process...")
	fmt.Fprintf(out, "CSV file: %s\n", paths.Input)
	fmt.Fprintf(out, "Output file: %s\n", paths.Output)

	if _, err := os.Stat(paths.Input); err != nil {
		fmt.Fprintf(out, "%s CSV file does not exist at %s\n", color.RedString("Error:"), paths.Input)
		return fmt.Errorf("input file: %w", err)
	}

	cc, err := config.LoadScriptConfig(paths.Config)
	if err != nil {
		fmt.Fprintf(out, "%s %v\n", color.RedString("Error:"), err)
		return err
	}

	table, err := readTicketFile(paths.Input)
	if err != nil {
		return err
	}
	if err := table.RequireColumn(models.DescriptionColumn); err != nil {
		fmt.Fprintf(out, "%s '%s' column not found in CSV. Available columns: %v\n",
			color.RedString("Error:"), models.DescriptionColumn, table.Header)
		return err
	}

	tracker := costtracker.New()
	completion, err := newScriptCompletion(cc, tracker)
	if err != nil {
		return fmt.Errorf("init completion service: %w", err)
	}
	fmt.Fprintf(out, "Connecting to Azure OpenAI at: %s\n", cc.Endpoint)
	fmt.Fprintf(out, "Using model: %s\n", cc.Model)

	clf := categorizer.NewLLMCategorizer(completion, categorizer.Options{MaxTokens: 20, Temperature: 0}, nil)
	total := scriptRowCap
	if len(table.Rows) < total {
		total = len(table.Rows)
	}
	batch := services.NewBatchService(clf, services.NewIntervalPacer(scriptDelay), services.BatchOptions{
		Progress: func(r models.ClassificationRecord) { printProgress(out, r, total) },
	})

	tmp, err := os.CreateTemp(filepath.Dir(paths.Output), ".classify-*.csv")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	rows, stats := batch.Process(cmd.Context(), table.Rows, scriptRowCap)
	if err := commitTicketFile(tmp, paths.Output, ticketcsv.OutputHeader(table.Header, batch.CategoryField()), rows); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nClassification complete. Processed %d tickets.\n", stats.Processed)
	printSummary(out, stats, tracker.Totals())
	fmt.Fprintf(out, "Results written to: %s\n", paths.Output)
	return nil
}

func readTicketFile(path string) (*ticketcsv.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text, err := util.CleanCSVBody(raw, path)
	if err != nil {
		return nil, err
	}
	table, err := ticketcsv.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

// commitTicketFile writes rows to tmp and renames it to path. On failure tmp
// is closed and path is left untouched.
func commitTicketFile(tmp *os.File, path string, header []string, rows []models.Ticket) error {
	if err := ticketcsv.Encode(tmp, header, rows); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printProgress(w io.Writer, r models.ClassificationRecord, total int) {
	fmt.Fprintf(w, "\nProcessing ticket %d/%d...\n", r.Index+1, total)
	switch r.Outcome {
	case models.OutcomeNoDescription:
		fmt.Fprintln(w, color.YellowString("No description found"))
	case models.OutcomeError:
		fmt.Fprintf(w, "Description: %s\n", util.Preview(r.Description, previewRunes))
		fmt.Fprintf(w, "%s %v\n", color.RedString("Error classifying ticket:"), r.Err)
	default:
		fmt.Fprintf(w, "Description: %s\n", util.Preview(r.Description, previewRunes))
		fmt.Fprintf(w, "Classified as: %s (%s)\n", color.GreenString(r.Category), r.Duration.Round(time.Millisecond))
	}
}

func printSummary(w io.Writer, stats services.BatchStats, usage costtracker.Totals) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Result", "Rows"})
	table.Append([]string{"Classified", strconv.Itoa(stats.Classified)})
	table.Append([]string{"No Description", strconv.Itoa(stats.Empty)})
	table.Append([]string{"Classification Error", strconv.Itoa(stats.Failed)})
	table.Append([]string{"Not processed", strconv.Itoa(stats.Dropped)})
	table.SetFooter([]string{"Tokens", strconv.Itoa(usage.InputTokens + usage.OutputTokens)})
	table.Render()
}

func init() {
	rootCmd.AddCommand(classifyFileCmd)
	classifyFileCmd.Flags().String("input", defaultInputFile, "Input CSV file with a Description column")
	classifyFileCmd.Flags().String("output", defaultOutputFile, "Output CSV file")
	classifyFileCmd.Flags().String("config", defaultScriptINI, "INI file with an [azure_openai] section")
}
