package cli

import (
	"log/slog"

	"github.com/alexanderramin/gridlayout/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Layouts    service.LayoutService
	Edits      service.EditService
	Tokens     service.TokenService
	Pages      service.PageService
	Fragments  service.FragmentService
	Blueprints service.BlueprintService

	// Logger receives HTTP request logs when serving.
	Logger *slog.Logger
	// Addr is the default listen address for serve.
	Addr string
}

// NewRootCmd creates the top-level "gridlayout" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gridlayout",
		Short:         "Page layouts built from rows, columns and items",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLayoutCmd(app),
		newTokenCmd(app),
		newFragmentCmd(app),
		newPageCmd(app),
		newServeCmd(app),
	)

	return root
}
