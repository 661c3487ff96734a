package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe the persisted cache snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.Config(overrides(cmd, args))
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			return c.app.Inspect(cfg, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Print the snapshot as JSON")
	return cmd
}

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "List snapshot entries the next build would invalidate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.Config(overrides(cmd, args))
			if err != nil {
				return err
			}
			prune, _ := cmd.Flags().GetBool("prune")
			_, err = c.app.Check(cfg, prune)
			return err
		},
	}
	cmd.Flags().Bool("prune", false, "Remove stale entries from the snapshot")
	return cmd
}

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the cache snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.Config(overrides(cmd, args))
			if err != nil {
				return err
			}
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Clean(cfg, all)
		},
	}
	cmd.Flags().Bool("all", false, "Remove the whole cache directory")
	return cmd
}
