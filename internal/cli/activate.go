package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <manifest> <class>",
		Short: "Instantiate a class once and report its state",
		Long: `Create one instance of the class. This runs the deferred composition
checks, configures every parameter trait, and runs the constructor chain.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadClass(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			_, newErr := c.New()

			if flags.jsonMode {
				result := map[string]string{"class": c.Name(), "state": string(c.State())}
				if newErr != nil {
					result["error"] = newErr.Error()
				}
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else if newErr == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.Name(), SuccessStyle.Render(string(c.State())))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", c.Name(), ErrorStyle.Render(string(c.State())), newErr)
			}
			if newErr != nil {
				return classify(newErr)
			}
			return nil
		},
	}
}

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <manifest> <class> <method> [args...]",
		Short: "Instantiate a class and call one public method",
		Long: `Create an instance and call a public method on it. Arguments that parse
as integers are passed as int; everything else is passed as a string.
Manifest method bodies are stubs that report which definition ran, so
the result shows the dispatch chain.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadClass(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			inst, err := c.New()
			if err != nil {
				return classify(err)
			}
			result, err := inst.Call(args[2], callArgs(args[3:])...)
			if err != nil {
				return classify(err)
			}
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"result": fmt.Sprint(result)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func callArgs(raw []string) []any {
	out := make([]any, 0, len(raw))
	for _, s := range raw {
		if n, err := strconv.Atoi(s); err == nil {
			out = append(out, n)
			continue
		}
		out = append(out, s)
	}
	return out
}
