// Package cli implements the stackup command-line interface.
//
// Commands:
//   - play: play in the current terminal
//   - serve: host the game over SSH, one independent game per connection
//   - best: show or reset the best score
//
// Every command accepts --verbose for debug logging, --tuning for a TOML
// file of gameplay parameters and --db for the best-score database.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tomz197/stackup/internal/config"
	"github.com/tomz197/stackup/internal/store"
)

const appName = "stackup"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by every command.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	tuningPath string
	dbPath     string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stack the blocks as high as you can",
		Long:         `stackup is a terminal block stacking game. Tap to drop the sliding block; whatever hangs over the tower is cut off.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.tuningPath, "tuning", config.GetEnv(config.EnvTuning, ""), "TOML file overriding gameplay parameters")
	flags.StringVar(&c.dbPath, "db", config.DefaultDatabasePath(), "best score database")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.bestCommand())

	return root
}

// tuning loads the gameplay parameters named by --tuning.
func (c *CLI) tuning() (config.Tuning, error) {
	t, err := config.LoadTuning(c.tuningPath)
	if err != nil {
		return config.Tuning{}, err
	}
	if c.tuningPath != "" {
		c.Logger.Debug("tuning loaded", "path", c.tuningPath)
	}
	return t, nil
}

// openStore opens the best-score database named by --db.
func (c *CLI) openStore(ctx context.Context) (store.BestScore, error) {
	s, err := store.OpenSQLite(ctx, c.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open best score store: %w", err)
	}
	c.Logger.Debug("best score store opened", "path", c.dbPath)
	return s, nil
}
