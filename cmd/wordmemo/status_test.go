package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusCommand(t *testing.T) {
	cmd := newStatusCommand()
	assert.Equal(t, "status", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
}

func TestStatusCommands(t *testing.T) {
	cfgPath := setupTestConfigFile(t, t.TempDir())

	got, err := executeCommand(t, cfgPath, "", "status", "list")
	require.NoError(t, err)
	assert.Contains(t, got, "No learning statuses recorded.")

	got, err = executeCommand(t, cfgPath, "", "status", "set", "back", "mastered")
	require.NoError(t, err)
	assert.Equal(t, "back: Mastered\n", got)

	got, err = executeCommand(t, cfgPath, "", "status", "set", "apple", "not", "started")
	require.NoError(t, err)
	assert.Equal(t, "apple: Not Started\n", got)

	_, err = executeCommand(t, cfgPath, "", "status", "set", "bad", "forgotten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown learning status")

	got, err = executeCommand(t, cfgPath, "", "status", "get", "back")
	require.NoError(t, err)
	assert.Equal(t, "Mastered\n", got)

	got, err = executeCommand(t, cfgPath, "", "status", "get", "bag")
	require.NoError(t, err)
	assert.Equal(t, "Not Started\n", got)

	got, err = executeCommand(t, cfgPath, "", "status", "list", "--prefix", "ba")
	require.NoError(t, err)
	assert.Equal(t, "  back: Mastered\n", got)

	got, err = executeCommand(t, cfgPath, "", "status", "list")
	require.NoError(t, err)
	assert.Equal(t, "  apple: Not Started\n  back: Mastered\n", got)
}
