package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newFragmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fragment",
		Short: "Manage markup fragments shown by fragment items",
	}
	cmd.AddCommand(newFragmentAddCmd(app), newFragmentShowCmd(app))
	return cmd
}

func newFragmentAddCmd(app *App) *cobra.Command {
	var title, body, file string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a fragment; prints its id for use as an item payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				data, err := readSource(cmd, file)
				if err != nil {
					return err
				}
				body = string(data)
			}
			f, err := app.Fragments.Create(cmd.Context(), title, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created fragment %d\n", f.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Fragment title")
	cmd.Flags().StringVar(&body, "body", "", "Fragment markup")
	cmd.Flags().StringVar(&file, "file", "", "Read the markup from a file (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("body", "file")
	cmd.MarkFlagsOneRequired("body", "file")
	return cmd
}

func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fragment: %w", err)
	}
	return data, nil
}

func newFragmentShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show FRAGMENT_ID",
		Short: "Print a stored fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := app.Fragments.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", f.Title, f.Body)
			return nil
		},
	}
}
