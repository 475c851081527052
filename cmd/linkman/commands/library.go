package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/linkman/internal/core/domain"
)

// pathAction is an app operation taking a single library path.
type pathAction func(ctx context.Context, path string) domain.Report

func (c *CLI) newPathCmd(use, short string, mutates bool, action func() pathAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <library>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.result(cmd, action()(cmd.Context(), args[0]), mutates)
		},
	}
}

func (c *CLI) newExpandCmd() *cobra.Command {
	return c.newPathCmd("expand", "Show or hide the path row of a library", false,
		func() pathAction { return c.app.ToggleExpand })
}

func (c *CLI) newToggleCmd() *cobra.Command {
	return c.newPathCmd("toggle", "Unload a linked library, or reload an unloaded one", true,
		func() pathAction { return c.app.ToggleLoad })
}

func (c *CLI) newUnloadCmd() *cobra.Command {
	return c.newPathCmd("unload", "Remove a library and remember what it contributed", true,
		func() pathAction { return c.app.Unload })
}

func (c *CLI) newReloadCmd() *cobra.Command {
	return c.newPathCmd("reload", "Relink a library and restore its scene placement", true,
		func() pathAction { return c.app.Reload })
}

func (c *CLI) newDeleteCmd() *cobra.Command {
	return c.newPathCmd("delete", "Remove a library and forget it", true,
		func() pathAction { return c.app.Delete })
}

func (c *CLI) newRelocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relocate <library> [new-path]",
		Short: "Point a library at another file, prompting when no path is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var newPath string
			if len(args) == 2 {
				newPath = args[1]
			}
			return c.result(cmd, c.app.Relocate(cmd.Context(), args[0], newPath), true)
		},
	}
}
