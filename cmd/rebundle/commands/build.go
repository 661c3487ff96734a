package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [root]",
		Short: "Run one cached build of the root directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.Config(overrides(cmd, args))
			if err != nil {
				return err
			}
			return c.app.Build(cmd.Context(), cfg)
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [root]",
		Short: "Rebuild whenever files under the root change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.Config(overrides(cmd, args))
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), cfg)
		},
	}
}
