package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolescrow/poold/coreV2/types"
)

func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"--home", home}, args...))

	err := RootCmd.Execute()

	return out.String(), err
}

func TestCommandsLifecycle(t *testing.T) {
	home := t.TempDir()

	_, err := execute(t, home, "query", "pool", "p1")
	require.Error(t, err)

	_, err = execute(t, home, "init", "--admin", "admin", "--account", "admin=1000", "--account", "alice=500", "--account", "bob=500")
	require.NoError(t, err)

	_, err = execute(t, home, "init", "--admin", "admin")
	require.Error(t, err, "second init must fail")

	_, err = execute(t, home, "tx", "create-pool", "p1", "100", "2", "--caller", "admin", "--value", "0")
	require.NoError(t, err)

	_, err = execute(t, home, "tx", "join-pool", "p1", "--caller", "alice", "--value", "100")
	require.NoError(t, err)

	out, err := execute(t, home, "tx", "join-pool", "p1", "--caller", "alice", "--value", "100")
	require.Error(t, err)

	var failed txResult
	require.NoError(t, json.Unmarshal([]byte(out), &failed))
	assert.EqualValues(t, 305, failed.Code)

	_, err = execute(t, home, "tx", "join-pool", "p1", "--caller", "bob", "--value", "100")
	require.NoError(t, err)

	out, err = execute(t, home, "query", "pool", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, `"current_participants": 2`)

	out, err = execute(t, home, "tx", "resolve-pool", "p1", "alice", "--caller", "admin", "--value", "0")
	require.NoError(t, err)

	var resolved txResult
	require.NoError(t, json.Unmarshal([]byte(out), &resolved))
	assert.Equal(t, "p1", resolved.Tags["tx.pool"])

	out, err = execute(t, home, "query", "account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, `"balance": "600"`)

	genesis := filepath.Join(home, "export.json")
	_, err = execute(t, home, "export", "--output", genesis, "--indent=false")
	require.NoError(t, err)

	data, err := os.ReadFile(genesis)
	require.NoError(t, err)

	var appState types.AppState
	require.NoError(t, json.Unmarshal(data, &appState))
	require.NoError(t, appState.Verify())
	assert.Empty(t, appState.Pools)
	assert.Equal(t, types.AccountRef("admin"), appState.Admin)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCut(t *testing.T) {
	name, balance, found := cut("alice=100", "=")
	assert.True(t, found)
	assert.Equal(t, "alice", name)
	assert.Equal(t, "100", balance)

	_, _, found = cut("alice", "=")
	assert.False(t, found)
}
