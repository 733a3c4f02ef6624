package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/weave/pkg/weave"
)

const modulePath = "github.com/mesh-intelligence/weave"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the weave version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": weave.Version, "module": modulePath})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "weave v%s\nmodule: %s\n", weave.Version, modulePath)
			return nil
		},
	}
}
