package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBindBranchFlagsUsesDefaultsAndParsesValues(t *testing.T) {
	command := &cobra.Command{}

	values := BindBranchFlags(command, BranchFlagValues{Name: "main"}, BranchFlagDefinition{Name: "branch", Usage: "Branch name", Enabled: true})

	require.NotNil(t, values)
	require.Equal(t, "main", values.Name)

	parseError := command.ParseFlags([]string{"--branch", "feature"})
	require.NoError(t, parseError)
	require.Equal(t, "feature", values.Name)
}

func TestBindBranchFlagsSkipsDisabledDefinitions(t *testing.T) {
	command := &cobra.Command{}

	values := BindBranchFlags(command, BranchFlagValues{Name: "main"}, BranchFlagDefinition{Name: "branch", Usage: "Branch name"})

	require.NotNil(t, values)
	require.Equal(t, "main", values.Name)
	require.Nil(t, command.Flags().Lookup("branch"))
}
