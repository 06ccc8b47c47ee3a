package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nlnotebook/internal/cli/config"
	"github.com/leapstack-labs/nlnotebook/internal/queryapi/queryapitest"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"version", "serve", "ask", "repl", "init", "completion"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCmd_Version(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nlnotebook v"+Version)
}

func TestRootCmd_FlagsReachConfig(t *testing.T) {
	srv := queryapitest.New(t)

	out, _, err := run(t, "--query-url", srv.URL, "-o", "json", "ask", "Show active users")
	require.NoError(t, err)

	assert.Contains(t, out, `"succeeded": true`)
	assert.Equal(t, []string{"Show active users"}, srv.Queries())

	cfg := config.GetCurrentConfig()
	assert.Equal(t, srv.URL, cfg.QueryAPI.URL)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	_, _, err := run(t, "--malformed", "shrug", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "nlnotebook")
}
