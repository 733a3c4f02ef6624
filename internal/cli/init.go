package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize weave configuration and catalog",
		Long:  "Create the configuration directory with a default config.yaml, then initialize the catalog directory.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings()
	if err != nil {
		return &ExitError{Code: exitSysError, Err: err}
	}
	logger := newLogger(cmd, s.verbose)

	backend, err := attachCatalog()
	if err != nil {
		return &ExitError{Code: exitSysError, Err: fmt.Errorf("initialize catalog: %w", err)}
	}
	if err := backend.Detach(); err != nil {
		return &ExitError{Code: exitSysError, Err: fmt.Errorf("finalize catalog: %w", err)}
	}
	logger.Debug("initialized", "config", s.configDir, "catalog", s.catalog.DataDir)

	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"config_dir": s.configDir,
			"data_dir":   s.catalog.DataDir,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("weave initialized"))
	fmt.Fprintf(cmd.OutOrStdout(), "config:  %s\ncatalog: %s\n", s.configDir, s.catalog.DataDir)
	return nil
}
