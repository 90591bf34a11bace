package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"migrate", "seed", "import", "overlaps"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestImportRejectsUnknownKind(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import", "--kind", "teachers", "--file", "missing.xlsx"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --kind")
}

func TestImportRequiresFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import"})
	require.Error(t, root.Execute())
}
