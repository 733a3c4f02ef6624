package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/weave/internal/compose"
	"github.com/mesh-intelligence/weave/internal/manifest"
)

// loadClass loads path and returns the named class, classifying failures
// for the exit code.
func loadClass(cmd *cobra.Command, path, name string) (*compose.Class, error) {
	set, err := manifest.Load(path, compose.WithLogger(commandLogger(cmd)))
	if err != nil {
		return nil, classify(fmt.Errorf("load %s: %w", path, err))
	}
	c, err := set.Class(name)
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <manifest> <class>",
		Short: "Show the resolved member table of a class",
		Long: `Compose the class and print one row per member: the winning definition,
its origin, and whether calls route through a virtual proxy.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadClass(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			records := c.MemberRecords()
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), records)
			}

			out := cmd.OutOrStdout()
			header := TitleStyle.Render(c.Name())
			if p := c.Parent(); p != nil {
				header += SubtitleStyle.Render(" extends " + p.Name())
			}
			fmt.Fprintln(out, header)
			if err := renderMembers(out, records); err != nil {
				return err
			}
			if abstract := c.Table().Abstract(); len(abstract) > 0 {
				fmt.Fprintln(out, WarningStyle.Render(fmt.Sprintf("abstract: %v", abstract)))
			}
			return nil
		},
	}
}
