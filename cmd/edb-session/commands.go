package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/dbgsession/pkg/config"
	"github.com/entrhq/dbgsession/pkg/logging"
	"github.com/entrhq/dbgsession/pkg/region"
)

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	configPath  string
	verbosity   string
	sessionFile string
	modulesPath string

	cfg    *config.Config
	logger *logging.Logger

	// newLogger is swapped out by tests to keep log files out of $HOME
	newLogger func(component string) (*logging.Logger, error)
}

func newCLI() *cli {
	return &cli{newLogger: logging.NewLogger}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "edb-session",
		Short:         "Inspect and edit debugger session files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `edb-session reads the session files the debugger keeps for each
debugged target. Comments and labels are stored relative to the module they
belong to; give a module map to see them at their current addresses.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				c.logger.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "settings file (default ~/.edb/config.yaml)")
	flags.StringVarP(&c.verbosity, "verbosity", "v", "", "log verbosity: quiet, normal, verbose, debug")
	flags.StringVarP(&c.sessionFile, "file", "f", "", "session file to use instead of the one derived from the target")
	flags.StringVarP(&c.modulesPath, "modules", "m", "", "YAML module map used to rebase annotations")

	root.AddCommand(
		newShowCmd(c),
		newListCmd(c),
		newAnnotateCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) setup() error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg

	verbosity := cfg.Logging.Verbosity
	if c.verbosity != "" {
		verbosity = c.verbosity
	}
	level, err := logging.ParseLevel(verbosity)
	if err != nil {
		return err
	}

	// NewLogger always returns a usable logger, falling back to stderr
	c.logger, _ = c.newLogger("cli")
	c.logger.SetLevel(level)
	c.logger.Debugf("using config %s, session dir %s", path, cfg.SessionDir)
	return nil
}

// sessionPath resolves the session file from --file or the target argument.
func (c *cli) sessionPath(args []string) (string, error) {
	if c.sessionFile != "" {
		return c.sessionFile, nil
	}
	if len(args) == 0 {
		return "", errors.New("a target executable or --file is required")
	}
	return c.cfg.SessionPath(args[0]), nil
}

// regions loads the module map from --modules or the settings file. Without
// one every annotation stays pending.
func (c *cli) regions() (*region.Table, error) {
	path := c.modulesPath
	if path == "" {
		path = c.cfg.Modules.Map
	}
	if path == "" {
		return region.NewTable(), nil
	}

	table, err := region.LoadTable(path)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("loaded %d modules from %s", table.Len(), path)
	return table, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// nothing to configure
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "edb-session v%s\n", version)
		},
	}
}
