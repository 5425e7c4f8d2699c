package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestUpdateCmd_Structure(t *testing.T) {
	assert.Equal(t, "update [mod]", updateCmd.Use)
	assert.NotEmpty(t, updateCmd.Short)
	assert.NotEmpty(t, updateCmd.Long)

	applyFlag := updateCmd.Flags().Lookup("apply")
	assert.NotNil(t, applyFlag)
	assert.Equal(t, "false", applyFlag.DefValue)

	ignoredFlag := updateCmd.Flags().Lookup("include-ignored")
	assert.NotNil(t, ignoredFlag)
	assert.Equal(t, "false", ignoredFlag.DefValue)
}

func TestUpdateCmd_HasIgnoreSubcommand(t *testing.T) {
	var names []string
	for _, sub := range updateCmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "ignore")
}

func TestUpdateCmd_AtMostOneMod(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.AddCommand(updateCmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"update", "ModA", "ModB"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestUpdateIgnoreCmd_RequiresModArgument(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.AddCommand(updateCmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"update", "ignore"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
