package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ticketclassifier/internal/config"
	"ticketclassifier/internal/costtracker"
	"ticketclassifier/internal/models"
	"ticketclassifier/internal/services"
	"ticketclassifier/internal/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validINI = `[azure_openai]
endpoint = https://example.openai.azure.com/
api_key = test-key-123456
model = triage
api_version = 2024-02-01
`

func stubScriptCompletion(t *testing.T, text string) *mocks.CompletionService {
	t.Helper()
	svc := mocks.NewCompletionService("azure", "triage")
	svc.On("GenerateChatCompletion", mock.Anything, mock.Anything,
		services.CompletionOptions{MaxTokens: 20, Temperature: 0}).
		Return(services.Completion{Text: text}, nil)

	origFactory, origDelay := newScriptCompletion, scriptDelay
	newScriptCompletion = func(config.ClientConfig, costtracker.CostTracker) (services.CompletionService, error) {
		return svc, nil
	}
	scriptDelay = 0
	t.Cleanup(func() {
		newScriptCompletion, scriptDelay = origFactory, origDelay
	})
	return svc
}

func TestCategoriesCommand(t *testing.T) {
	out, err := execute(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "NHSUK Spam/Marketing")
	assert.Contains(t, out, "CSF – Junk NSD")
	assert.Contains(t, out, "27")
}

func TestClassifyFileCommand(t *testing.T) {
	svc := stubScriptCompletion(t, "NHS App National Services")
	dir := t.TempDir()

	var sb strings.Builder
	sb.WriteString("Number,Description\n")
	sb.WriteString("INC0,Can't log into NHS App\n")
	sb.WriteString("INC1,\n")
	for i := 2; i < 25; i++ {
		sb.WriteString("INC" + string(rune('A'+i)) + ",Ticket text. More detail follows.\n")
	}
	input := writeFile(t, dir, "cases.csv", sb.String())
	ini := writeFile(t, dir, "config.ini", validINI)
	output := filepath.Join(dir, "cases - Categorized.csv")

	out, err := execute(t, "classify-file", "--input", input, "--output", output, "--config", ini)
	require.NoError(t, err)
	assert.Contains(t, out, "Processing ticket 1/20...")
	assert.Contains(t, out, "No description found")
	assert.Contains(t, out, "Description: Ticket text. ...")
	assert.Contains(t, out, "Classification complete. Processed 20 tickets.")

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(written)), "\n")
	require.Len(t, lines, 21, "header plus the 20-row cap")
	assert.Equal(t, "Number,Description,Category", lines[0])
	assert.Equal(t, "INC0,Can't log into NHS App,NHS App National Services", lines[1])
	assert.Equal(t, "INC1,,No Description", lines[2])
	svc.AssertNumberOfCalls(t, "GenerateChatCompletion", 19)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".classify-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCommitTicketFile_FailedWriteLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.csv")
	tmp, err := os.CreateTemp(dir, ".classify-*.csv")
	require.NoError(t, err)
	require.NoError(t, tmp.Close()) // writes now fail

	rows := []models.Ticket{models.NewTicket([]string{"Description"}, []string{"printer jam"})}
	err = commitTicketFile(tmp, output, []string{"Description", "Category"}, rows)
	require.Error(t, err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no partial output")
}

func TestClassifyFileCommand_FailedRenameCleansUp(t *testing.T) {
	stubScriptCompletion(t, "NHSUK Profiles")
	dir := t.TempDir()
	input := writeFile(t, dir, "in.csv", "Description\nhello\n")
	ini := writeFile(t, dir, "config.ini", validINI)
	output := filepath.Join(dir, "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(output, "child"), 0o755))

	_, err := execute(t, "classify-file", "--input", input, "--output", output, "--config", ini)
	require.Error(t, err)

	info, statErr := os.Stat(output)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir(), "existing path is untouched")
	leftovers, err := filepath.Glob(filepath.Join(dir, ".classify-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp file is removed")
}

func TestClassifyFileCommand_NoOutputOnValidationFailure(t *testing.T) {
	stubScriptCompletion(t, "unused")

	cases := map[string]struct {
		input string
		ini   string
	}{
		"missing column":  {input: "Summary\nhello\n", ini: validINI},
		"missing section": {input: "Description\nhello\n", ini: "[other]\nkey = value\n"},
		"missing key":     {input: "Description\nhello\n", ini: "[azure_openai]\nendpoint = https://x\napi_key = k\nmodel = m\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeFile(t, dir, "in.csv", tc.input)
			ini := writeFile(t, dir, "config.ini", tc.ini)
			output := filepath.Join(dir, "out.csv")

			_, err := execute(t, "classify-file", "--input", input, "--output", output, "--config", ini)
			require.Error(t, err)
			_, statErr := os.Stat(output)
			assert.True(t, os.IsNotExist(statErr), "output must not be created")
		})
	}

	t.Run("missing input", func(t *testing.T) {
		dir := t.TempDir()
		ini := writeFile(t, dir, "config.ini", validINI)
		output := filepath.Join(dir, "out.csv")

		out, err := execute(t, "classify-file", "--input", filepath.Join(dir, "nope.csv"), "--output", output, "--config", ini)
		require.Error(t, err)
		assert.Contains(t, out, "CSV file does not exist")
		_, statErr := os.Stat(output)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestDoctorCommand(t *testing.T) {
	t.Setenv("TICKETCLASSIFIER_COMPLETION_PROVIDER", "azure")
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvAPIVersion, "")
	t.Setenv(config.EnvEndpoint, "")
	t.Setenv(config.EnvModel, "")

	out, err := execute(t, "doctor", "--json=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvAPIKey)
	assert.Contains(t, out, "MISSING")

	t.Setenv(config.EnvAPIKey, "test-key-123456")
	t.Setenv(config.EnvAPIVersion, "2024-02-01")
	t.Setenv(config.EnvEndpoint, "https://example.openai.azure.com")
	t.Setenv(config.EnvModel, "triage")

	out, err = execute(t, "doctor", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "ok"`)
	assert.NotContains(t, out, "test-key-123456")
}

func TestClassifyFileCommand_AgainstAzure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/openai/deployments/triage/chat/completions", r.URL.Path)
		assert.Equal(t, "2024-02-01", r.URL.Query().Get("api-version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"index": 0, "message": {"role": "assistant", "content": "Patient Facing"}}]}`))
	}))
	defer srv.Close()

	origDelay := scriptDelay
	scriptDelay = 0
	t.Cleanup(func() { scriptDelay = origDelay })

	dir := t.TempDir()
	input := writeFile(t, dir, "in.csv", "Description\nBooked the wrong slot\n")
	ini := writeFile(t, dir, "config.ini", strings.Replace(validINI, "https://example.openai.azure.com/", srv.URL, 1))
	output := filepath.Join(dir, "out.csv")

	_, err := execute(t, "classify-file", "--input", input, "--output", output, "--config", ini)
	require.NoError(t, err)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Description,Category\nBooked the wrong slot,Patient Facing\n", string(written))
	assert.Equal(t, 1, calls)
}
