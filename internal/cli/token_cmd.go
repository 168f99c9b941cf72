package cli

import (
	"fmt"

	"github.com/alexanderramin/gridlayout/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage edit tokens",
	}
	cmd.AddCommand(newTokenCreateCmd(app), newTokenShowCmd(app), newTokenDeleteCmd(app))
	return cmd
}

func newTokenCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create LAYOUT_ID...",
		Short: "Create a token that unlocks editing of the given layouts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			t, err := app.Tokens.Create(cmd.Context(), ids)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatToken(t))
			return nil
		},
	}
}

func newTokenShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TOKEN",
		Short: "Show the layouts a token unlocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Tokens.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatToken(t))
			return nil
		},
	}
}

func newTokenDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TOKEN",
		Short: "Revoke a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tokens.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token revoked")
			return nil
		},
	}
}
