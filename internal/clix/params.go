package clix

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// ScriptPaths are the files used by the local batch command.
type ScriptPaths struct {
	Input  string
	Output string
	Config string
}

// ParseScriptPaths reads the --input, --output and --config flags. The input
// and output must name different files.
func ParseScriptPaths(flags *pflag.FlagSet) (ScriptPaths, error) {
	input, _ := flags.GetString("input")
	output, _ := flags.GetString("output")
	cfg, _ := flags.GetString("config")

	p := ScriptPaths{
		Input:  strings.TrimSpace(input),
		Output: strings.TrimSpace(output),
		Config: strings.TrimSpace(cfg),
	}
	if p.Input == "" || p.Output == "" || p.Config == "" {
		return p, fmt.Errorf("--input, --output and --config must not be empty")
	}
	if filepath.Clean(p.Input) == filepath.Clean(p.Output) {
		return p, fmt.Errorf("output file %q would overwrite the input", p.Output)
	}
	return p, nil
}

// ParseDescription joins positional args into one description. A single "-"
// reads the description from stdin instead.
func ParseDescription(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read description from stdin: %w", err)
		}
		return strings.TrimRight(string(b), "\r\n"), nil
	}
	return strings.Join(args, " "), nil
}
