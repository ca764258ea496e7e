// Package cli implements the categorycloud command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/categorycloud/pkg/buildinfo"
	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/messages"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "categorycloud"

	// envStore overrides the configured store DSN.
	envStore = "CATEGORYCLOUD_STORE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // rendered output when no file is given

	configPath string
	storeDSN   string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		config: &Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Categorycloud renders wiki categories as tag clouds",
		Long:         `Categorycloud renders the direct subcategories of a wiki category as a tag cloud, sizing each entry by how many pages it holds.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/categorycloud/config.toml)")
	root.PersistentFlags().StringVar(&c.storeDSN, "store", "", "membership store DSN (overrides config and $"+envStore+")")

	root.AddCommand(c.cloudCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.loadCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and, at debug level, registers logging hooks.
func (c *CLI) setup() error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	if c.Logger.GetLevel() <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
	return nil
}

// =============================================================================
// Store & Renderer Factory
// =============================================================================

// dsn resolves the store DSN: flag, then environment, then config.
func (c *CLI) dsn() (string, error) {
	for _, v := range []string{c.storeDSN, os.Getenv(envStore), c.config.Store.DSN} {
		if v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no store configured: pass --store, set $%s or add [store] dsn to the config file", envStore)
}

// openStore opens the configured store.
func (c *CLI) openStore(ctx context.Context) (*openedStore, error) {
	dsn, err := c.dsn()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opening store", "dsn", redactDSN(dsn))
	return openStore(ctx, dsn, c.config.Store.RedisPrefix)
}

// bundle loads the configured message catalogs, or English only.
func (c *CLI) bundle() (*messages.Bundle, error) {
	if c.config.Messages.Dir == "" {
		return messages.NewBundle(), nil
	}
	b, err := messages.LoadDir(c.config.Messages.Dir)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded message catalogs", "languages", b.Languages())
	return b, nil
}

// newRenderer creates a renderer over store using the CLI logger.
func (c *CLI) newRenderer(store *openedStore) *cloud.Renderer {
	return cloud.NewRenderer(store, nil, c.Logger)
}
