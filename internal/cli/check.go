package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/weave/internal/compose"
	"github.com/mesh-intelligence/weave/internal/manifest"
)

// classReport is the outcome of activating one class.
type classReport struct {
	Class    string   `json:"class"`
	Parent   string   `json:"parent,omitempty"`
	Traits   []string `json:"traits"`
	State    string   `json:"state"`
	Abstract bool     `json:"abstract"`
	Members  int      `json:"members"`
	Error    string   `json:"error,omitempty"`
}

func newCheckCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Compose and activate every class in a manifest",
		Long: `Load the manifest, compose every class, and run each class's deferred
checks. With --watch, check again whenever the manifest changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := commandLogger(cmd)
			path := args[0]
			if !watch {
				return runCheck(cmd.OutOrStdout(), path, logger)
			}

			w, err := newManifestWatcher(path, defaultDebounce, logger)
			if err != nil {
				return &ExitError{Code: exitSysError, Err: err}
			}
			if err := runCheck(cmd.OutOrStdout(), path, logger); err != nil {
				logger.Error("check failed", "err", err)
			}
			logger.Info("watching for changes", "path", path)
			return w.Run(cmd.Context(), func(context.Context) {
				if err := runCheck(cmd.OutOrStdout(), path, logger); err != nil {
					logger.Error("check failed", "err", err)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-check whenever the manifest changes")
	return cmd
}

// runCheck loads path and activates every class. It returns an exit code 1
// error when loading fails or any class fails to activate.
func runCheck(out io.Writer, path string, logger *log.Logger) error {
	set, err := manifest.Load(path, compose.WithLogger(logger))
	if err != nil {
		return classify(fmt.Errorf("load %s: %w", path, err))
	}

	reports := make([]classReport, 0, len(set.ClassNames()))
	failed := 0
	for _, name := range set.ClassNames() {
		c := set.Classes[name]
		r := reportClass(c)
		if r.Error != "" {
			failed++
		}
		reports = append(reports, r)
	}

	if flags.jsonMode {
		if err := writeJSON(out, reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			fmt.Fprintln(out, formatReport(r))
		}
		fmt.Fprintf(out, "%d classes, %d failed\n", len(reports), failed)
	}
	if failed > 0 {
		return &ExitError{Code: exitUserError, Err: fmt.Errorf("%d of %d classes failed", failed, len(reports))}
	}
	return nil
}

func reportClass(c *compose.Class) classReport {
	r := classReport{
		Class:    c.Name(),
		Traits:   []string{},
		Abstract: c.Abstract(),
		Members:  c.Table().Len(),
	}
	if p := c.Parent(); p != nil {
		r.Parent = p.Name()
	}
	for _, t := range c.Traits() {
		r.Traits = append(r.Traits, t.Name())
	}
	if err := c.Activate(); err != nil {
		r.Error = err.Error()
	}
	r.State = string(c.State())
	return r
}

func formatReport(r classReport) string {
	switch {
	case r.Error != "":
		return fmt.Sprintf("%s %s: %s", ErrorStyle.Render("FAIL"), r.Class, r.Error)
	case r.Abstract:
		return fmt.Sprintf("%s %s (%d members, abstract)", WarningStyle.Render("ok  "), r.Class, r.Members)
	default:
		return fmt.Sprintf("%s %s (%d members)", SuccessStyle.Render("ok  "), r.Class, r.Members)
	}
}
