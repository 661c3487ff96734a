// Package commands implements the CLI commands for rebundle.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/rebundle/internal/adapters/logger"
	"go.trai.ch/rebundle/internal/app"
	"go.trai.ch/rebundle/internal/build"
)

// CLI represents the command line interface for rebundle.
type CLI struct {
	app     *app.App
	console *logger.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, console *logger.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "rebundle",
		Short:         "An mtime-validated, persistent cache for incremental builds",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the configuration file (default <root>/.rebundler.yaml)")
	flags.Bool("persist", false, "Persist the cache between runs")
	flags.StringP("persist-key", "k", "", "Key identifying the build configuration that owns the cache")
	flags.String("cache-dir", "", "Directory for cache snapshots (default <root>/.rebundler-cache)")
	flags.Bool("noop", false, "Bypass caching entirely")
	flags.Bool("verbose", false, "Show cache diagnostics")
	flags.Bool("log-json", false, "Write logs as JSON")

	c := &CLI{
		app:     a,
		console: console,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		c.console.SetVerbose(verbose)
		c.console.SetJSON(logJSON)
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects the root command's output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// overrides collects the persistent flags and an optional root argument.
func overrides(cmd *cobra.Command, args []string) app.Overrides {
	flags := cmd.Flags()
	var o app.Overrides
	o.ConfigPath, _ = flags.GetString("config")
	o.PersistKey, _ = flags.GetString("persist-key")
	o.CacheDir, _ = flags.GetString("cache-dir")
	o.Noop, _ = flags.GetBool("noop")
	if flags.Changed("persist") {
		persist, _ := flags.GetBool("persist")
		o.Persist = &persist
	}
	if len(args) > 0 {
		o.Root = args[0]
	}
	return o
}
