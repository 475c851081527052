package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch <library>",
		Short: "Swap a library between its low-res and high-res file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replacement, _ := cmd.Flags().GetString("replacement")
			return c.result(cmd, c.app.SwitchResolution(cmd.Context(), args[0], replacement), true)
		},
	}
	cmd.Flags().StringP("replacement", "r", "", "File to switch to instead of the derived counterpart")
	return cmd
}

func (c *CLI) newRenderResCmd() *cobra.Command {
	return c.newPathCmd("render-res", "Toggle rendering a low-res library at high resolution", false,
		func() pathAction { return c.app.ToggleRenderResolution })
}

func (c *CLI) newPrefetchCmd() *cobra.Command {
	return c.newPathCmd("prefetch", "Load the high-res data of a library without showing it", false,
		func() pathAction { return c.app.Prefetch })
}

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run a render cycle, swapping flagged libraries to high-res",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cancel, _ := cmd.Flags().GetBool("cancel")
			return c.result(cmd, c.app.Render(cmd.Context(), cancel), false)
		},
	}
	cmd.Flags().Bool("cancel", false, "Cancel the render after the before-render swap")
	return cmd
}
