package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paperwork/books"
)

// =============================================================================
// HARNESS
// =============================================================================

type cliEnv struct {
	dbPath     string
	configPath string
	today      time.Time
}

func newCLIEnv(t *testing.T, config string) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := &cliEnv{
		dbPath:     filepath.Join(dir, "data", "paperwork.db"),
		configPath: filepath.Join(dir, "paperwork.yaml"),
		today:      time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	if config != "" {
		require.NoError(t, os.WriteFile(env.configPath, []byte(config), 0o600))
	}
	return env
}

func (e *cliEnv) options() *RootOptions {
	return &RootOptions{
		Clock:     books.ClockFunc(func() time.Time { return e.today }),
		LogOutput: io.Discard,
	}
}

func (e *cliEnv) args(args []string) []string {
	return append([]string{"--db", e.dbPath, "--config", e.configPath}, args...)
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(e.options())
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(e.args(args))

	err := cmd.Execute()
	return buf.String(), err
}

// exec goes through the same entry point as the binary.
func (e *cliEnv) exec(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(e.options(), e.args(args), &out, &errOut)
	return out.String(), errOut.String(), code
}

// =============================================================================
// COMMAND TREE
// =============================================================================

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "paperwork", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"serve"},
		{"init"},
		{"invoices", "list"},
		{"invoices", "pay"},
		{"taxonomy", "list"},
		{"taxonomy", "add"},
		{"taxonomy", "delete"},
		{"export", "invoices"},
	}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	env := newCLIEnv(t, "")

	_, err := env.run(t, "--format", "xml", "taxonomy", "list", "creditors")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBadConfig(t *testing.T) {
	env := newCLIEnv(t, "port: 0\n")

	_, err := env.run(t, "taxonomy", "list", "creditors")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// =============================================================================
// ERROR OUTPUT
// =============================================================================

func TestRun_TextErrorOnStderr(t *testing.T) {
	env := newCLIEnv(t, "")

	stdout, stderr, code := env.exec(t, "invoices", "pay", "first")

	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "Error: invalid id \"first\""), stderr)
}

func TestRun_JSONErrorEnvelope(t *testing.T) {
	env := newCLIEnv(t, "")
	seedInvoices(t, env.dbPath, invoice("EDF", "1", "not-a-date"))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		errCode  string
		message  string
	}{
		{"bad id", []string{"invoices", "pay", "first"}, ExitCommandError, "command", `invalid id "first"`},
		{"bad due date", []string{"invoices", "list"}, ExitFailure, "validation", "failed to list invoices"},
		{"unknown taxonomy", []string{"taxonomy", "list", "planets"}, ExitCommandError, "validation", "unknown taxonomy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := env.exec(t, append([]string{"--format", "json"}, tt.args...)...)
			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, stderr)

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
			assert.Equal(t, "error", resp.Status)
			assert.Nil(t, resp.Data)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.errCode, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.NotEmpty(t, resp.Error.Details)
		})
	}
}

func TestRun_SuccessReturnsZero(t *testing.T) {
	env := newCLIEnv(t, "")

	_, _, code := env.exec(t, "taxonomy", "add", "sources", "ACME")
	require.Equal(t, ExitSuccess, code)

	stdout, stderr, code := env.exec(t, "--format", "json", "taxonomy", "list", "sources")

	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, stderr)
	assert.JSONEq(t, `{"status":"ok","data":[{"ID":1,"Name":"ACME"}]}`, stdout)
}

// =============================================================================
// INIT & TAXONOMY
// =============================================================================

func TestInit_SeedsOnce(t *testing.T) {
	env := newCLIEnv(t, `
seed:
  creditors: ["EDF", "Orange"]
  task-priorities: ["High", "Low"]
`)

	// GIVEN: init run twice
	_, err := env.run(t, "init")
	require.NoError(t, err)
	_, err = env.run(t, "init")
	require.NoError(t, err)

	// THEN: Seed values exist exactly once
	out, err := env.run(t, "taxonomy", "list", "creditors")
	require.NoError(t, err)
	assert.Equal(t, "1\tEDF\n2\tOrange\n", out)

	out, err = env.run(t, "taxonomy", "list", "task_priorities")
	require.NoError(t, err)
	assert.Equal(t, "1\tHigh\n2\tLow\n", out)
}

func TestTaxonomy_AddDeleteJSON(t *testing.T) {
	env := newCLIEnv(t, "")

	_, err := env.run(t, "taxonomy", "add", "sources", "ACME")
	require.NoError(t, err)
	_, err = env.run(t, "taxonomy", "add", "sources", "Tenant")
	require.NoError(t, err)
	_, err = env.run(t, "taxonomy", "delete", "sources", "1")
	require.NoError(t, err)

	out, err := env.run(t, "--format", "json", "taxonomy", "list", "sources")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":[{"ID":2,"Name":"Tenant"}]}`, out)
}

func TestTaxonomy_UnknownKind(t *testing.T) {
	env := newCLIEnv(t, "")

	_, err := env.run(t, "taxonomy", "list", "planets")
	require.Error(t, err)
	assert.ErrorIs(t, err, books.ErrUnknownTaxonomy)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
