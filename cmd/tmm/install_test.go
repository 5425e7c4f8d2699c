package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestInstallCmd_Structure(t *testing.T) {
	assert.Equal(t, "install <owner> <name>", installCmd.Use)
	assert.NotEmpty(t, installCmd.Short)
	assert.NotEmpty(t, installCmd.Long)

	versionFlag := installCmd.Flags().Lookup("version")
	assert.NotNil(t, versionFlag)
	assert.Equal(t, "", versionFlag.DefValue)
}

func TestInstallCmd_RequiresOwnerAndName(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.AddCommand(installCmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"install", "MoreCompany"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}
