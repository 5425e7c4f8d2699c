package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestToggleCmd_Structure(t *testing.T) {
	assert.Equal(t, "toggle <mod>", toggleCmd.Use)
	assert.NotEmpty(t, toggleCmd.Short)
	assert.NotEmpty(t, toggleCmd.Long)
}

func TestToggleCmd_RequiresModArgument(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.AddCommand(toggleCmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"toggle"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}
