package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/gridlayout/internal/cli/formatter"
	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/importer"
	"github.com/spf13/cobra"
)

func newLayoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Manage layouts",
	}

	cmd.AddCommand(
		newLayoutCreateCmd(app),
		newLayoutListCmd(app),
		newLayoutShowCmd(app),
		newLayoutRenderCmd(app),
		newLayoutDeleteCmd(app),
		newLayoutMoveCmd(app),
		newLayoutAddItemCmd(app),
		newLayoutAddColumnsCmd(app),
		newLayoutAddColumnCmd(app),
		newLayoutRemoveColumnCmd(app),
		newLayoutRemoveCmd(app),
		newLayoutSetOptionsCmd(app),
		newLayoutDuplicateCmd(app),
		newLayoutImportCmd(app),
		newLayoutExportCmd(app),
	)

	return cmd
}

func newLayoutCreateCmd(app *App) *cobra.Command {
	var attrs attributeFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := app.Layouts.Create(cmd.Context(), attrs.attributes())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created layout %d\n", l.ID)
			return nil
		},
	}

	attrs.register(cmd.Flags())
	return cmd
}

func newLayoutListCmd(app *App) *cobra.Command {
	var attrs attributeFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List layouts, optionally filtered by attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layouts, err := app.Layouts.List(cmd.Context(), attrs.conditions())
			if err != nil {
				return err
			}
			if len(layouts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No layouts found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLayoutList(layouts, time.Now()))
			return nil
		},
	}

	attrs.register(cmd.Flags())
	return cmd
}

func newLayoutShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show LAYOUT_ID",
		Short: "Show the node tree of a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := app.Layouts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLayoutTree(l))
			return nil
		},
	}
}

func newLayoutRenderCmd(app *App) *cobra.Command {
	var token string
	var outline bool

	cmd := &cobra.Command{
		Use:   "render LAYOUT_ID",
		Short: "Render a layout as markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var out string
			if outline {
				out, err = app.Layouts.Outline(cmd.Context(), id)
			} else {
				out, err = app.Layouts.Render(cmd.Context(), id, token)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Edit token; decorates the markup with edit menus")
	cmd.Flags().BoolVar(&outline, "outline", false, "Print the XML outline instead of page markup")
	cmd.MarkFlagsMutuallyExclusive("token", "outline")
	return cmd
}

func newLayoutDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete LAYOUT_ID",
		Short: "Delete a layout and all its nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Layouts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted layout %d\n", id)
			return nil
		},
	}
}

func newLayoutMoveCmd(app *App) *cobra.Command {
	var node, into string
	var position int

	cmd := &cobra.Command{
		Use:   "move LAYOUT_ID",
		Short: "Move a node into a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req := domain.MoveRequest{NodeID: node, ContainerID: into, Position: position}
			if err := app.Edits.Move(cmd.Context(), id, req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s into %s at %d\n", node, into, position)
			return nil
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "Storage id of the node to move")
	cmd.Flags().StringVar(&into, "into", "", "Storage id of the target container")
	cmd.Flags().IntVar(&position, "position", 0, "Position among the target's children")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.MarkFlagRequired("into")
	return cmd
}

func newLayoutAddItemCmd(app *App) *cobra.Command {
	var into, typeID string
	var payload int64
	var position int
	var options []string

	cmd := &cobra.Command{
		Use:   "add-item LAYOUT_ID",
		Short: "Add an item to a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			opts, err := parseOptions(options)
			if err != nil {
				return err
			}
			item, err := app.Edits.AddItem(cmd.Context(), id, into, position, typeID, payload, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %s\n", item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Storage id of the target container")
	cmd.Flags().StringVar(&typeID, "type", "", "Item type")
	cmd.Flags().Int64Var(&payload, "payload", 0, "Payload id passed to the item type")
	cmd.Flags().IntVar(&position, "position", 0, "Position among the container's children")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Item option as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("into")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("payload")
	return cmd
}

func newLayoutAddColumnsCmd(app *App) *cobra.Command {
	var into string
	var position, count int

	cmd := &cobra.Command{
		Use:   "add-columns LAYOUT_ID",
		Short: "Add a columns container with empty columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			h, err := app.Edits.AddColumnContainer(cmd.Context(), id, into, position, count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added columns container %s with %d columns\n", h.ID, h.Count())
			return nil
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Storage id of the target container")
	cmd.Flags().IntVar(&position, "position", 0, "Position among the container's children")
	cmd.Flags().IntVar(&count, "count", 2, "Number of columns")
	_ = cmd.MarkFlagRequired("into")
	return cmd
}

func newLayoutAddColumnCmd(app *App) *cobra.Command {
	var container string
	var position int

	cmd := &cobra.Command{
		Use:   "add-column LAYOUT_ID",
		Short: "Add an empty column to a columns container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			col, err := app.Edits.AddColumn(cmd.Context(), id, container, position)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added column %s\n", col.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&container, "container", "", "Storage id of the columns container")
	cmd.Flags().IntVar(&position, "position", 0, "Column position")
	_ = cmd.MarkFlagRequired("container")
	return cmd
}

func newLayoutRemoveColumnCmd(app *App) *cobra.Command {
	var container string
	var position int

	cmd := &cobra.Command{
		Use:   "remove-column LAYOUT_ID",
		Short: "Remove the column at a position, with everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Edits.RemoveColumn(cmd.Context(), id, container, position); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed column %d of %s\n", position, container)
			return nil
		},
	}

	cmd.Flags().StringVar(&container, "container", "", "Storage id of the columns container")
	cmd.Flags().IntVar(&position, "position", 0, "Column position")
	_ = cmd.MarkFlagRequired("container")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}

func newLayoutRemoveCmd(app *App) *cobra.Command {
	var node string

	cmd := &cobra.Command{
		Use:   "remove LAYOUT_ID",
		Short: "Remove a node and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Edits.Remove(cmd.Context(), id, node); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", node)
			return nil
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "Storage id of the node to remove")
	_ = cmd.MarkFlagRequired("node")
	return cmd
}

func newLayoutSetOptionsCmd(app *App) *cobra.Command {
	var node string
	var options []string

	cmd := &cobra.Command{
		Use:   "set-options LAYOUT_ID",
		Short: "Replace the options of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			opts, err := parseOptions(options)
			if err != nil {
				return err
			}
			if err := app.Edits.SetOptions(cmd.Context(), id, node, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated options of %s\n", node)
			return nil
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "Storage id of the node")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Option as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("node")
	return cmd
}

func newLayoutDuplicateCmd(app *App) *cobra.Command {
	var node string

	cmd := &cobra.Command{
		Use:   "duplicate LAYOUT_ID",
		Short: "Copy an item next to itself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dup, err := app.Edits.Duplicate(cmd.Context(), id, node)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Duplicated %s as %s\n", node, dup.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "Storage id of the item")
	_ = cmd.MarkFlagRequired("node")
	return cmd
}

func newLayoutImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a layout from a YAML or JSON blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := app.Blueprints.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created layout %d with %d nodes\n", l.ID, l.NodeCount()-1)
			return nil
		},
	}
}

func newLayoutExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export LAYOUT_ID",
		Short: "Write a layout as a YAML blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			bp, err := app.Blueprints.Export(cmd.Context(), id)
			if err != nil {
				return err
			}
			data, err := importer.Marshal(bp)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing blueprint: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
