package cli

import (
	"fmt"

	"github.com/alexanderramin/gridlayout/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPageCmd(app *App) *cobra.Command {
	var attrs attributeFlags
	var token string

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Render every layout matching the attributes, grouped by region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			regions, err := app.Pages.Assemble(cmd.Context(), attrs.conditions(), token)
			if err != nil {
				return err
			}
			if len(regions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No layouts found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPage(regions))
			return nil
		},
	}

	attrs.register(cmd.Flags())
	cmd.Flags().StringVar(&token, "token", "", "Edit token; decorates covered layouts with edit menus")
	return cmd
}
