package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sparkfmt v"+Version)
}

func TestRoot_FmtStdinEndToEnd(t *testing.T) {
	out, err := execute(t, `spark.sql("select 1")`, "fmt")
	require.NoError(t, err)
	assert.Equal(t, "spark.sql(\"SELECT\n  1\")", out)
}

func TestRoot_CallFlagPropagates(t *testing.T) {
	out, err := execute(t, `session.sql("select 1")`, "fmt", "--call", "session.sql")
	require.NoError(t, err)
	assert.Equal(t, "session.sql(\"SELECT\n  1\")", out)
}

func TestRoot_InvalidIndentFlag(t *testing.T) {
	_, err := execute(t, "", "fmt", "--indent", "-3")
	require.Error(t, err)
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := execute(t, "", "bogus")
	require.Error(t, err)
}
