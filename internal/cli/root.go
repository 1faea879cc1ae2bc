// Package cli implements the coinshelf command-line interface. Running the
// root command with no subcommand starts the interactive shell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/coinshelf/internal/logger"
	"github.com/mesh-intelligence/coinshelf/internal/paths"
	"github.com/mesh-intelligence/coinshelf/internal/shell"
	"github.com/mesh-intelligence/coinshelf/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app is the state shared by one command tree: flags, the loaded config and
// the logger built from it.
type app struct {
	flags  rootFlags
	config types.Config
	logger *zap.Logger
	opener shell.Opener
}

// NewRootCmd creates the top-level "coinshelf" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{opener: shell.BrowserOpener{}})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "coinshelf",
		Short: "Track a collection of silver coins",
		Long: "coinshelf keeps an inventory of US silver coins, values it at the\n" +
			"silver spot price entered when coins are added, and stores coin photos.",
		Version: Version,
		Args:    cobra.NoArgs,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: a.runShell,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newListCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code. The
// first interrupt cancels the command context; a second one kills the process.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
	}()

	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		os.Exit(exitSuccess)
	case errors.Is(err, types.ErrBackendEmpty), errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, types.ErrTableName), errors.Is(err, types.ErrMongoURIEmpty),
		errors.Is(err, types.ErrBucketEmpty):
		os.Exit(exitUserError)
	default:
		os.Exit(exitSysError)
	}
}

// load resolves the config directory, reads the configuration and builds the
// logger. It runs before every command.
func (a *app) load() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir, a.flags.dataDir)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger = log
	return nil
}

func (a *app) runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, closeStores, err := openService(ctx, a.config, a.logger)
	if err != nil {
		return err
	}
	defer closeStores()

	sh := shell.New(shell.Options{
		Inventory: svc,
		Catalog:   svc.Catalog(),
		Opener:    a.opener,
		VendorURL: a.config.VendorURL,
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		Logger:    logger.Named(a.logger, "shell"),
	})
	return sh.Run(ctx)
}
