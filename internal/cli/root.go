// Package cli implements the weave command-line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/weave/pkg/weave"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "weave" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags = rootFlags{}
	root := &cobra.Command{
		Use:   "weave",
		Short: "Compose classes from traits and inspect the result",
		Long: TitleStyle.Render("weave") + SubtitleStyle.Render(" - trait linearization and method resolution") + `

weave loads a manifest of interfaces, traits and classes, composes each
class, and reports the resolved member table: which definition wins for
every name, where it came from, and whether calls route through a
virtual proxy.`,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "catalog directory (default: .weave-catalog)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newActivateCmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newCatalogCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(weave.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitUserError)
	}
}
