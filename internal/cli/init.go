package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coinshelf/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	var writeConfig bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Provision coinshelf storage",
		Long: "Create the configuration and data directories, provision the record\n" +
			"table and the photo bucket, and write config.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, writeConfig)
		},
	}
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "overwrite config.yaml with the resolved configuration")
	return cmd
}

// runInit opens and closes both stores so the table and bucket exist. With
// writeConfig it also records the resolved configuration in config.yaml.
func (a *app) runInit(cmd *cobra.Command, writeConfig bool) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	configPath := filepath.Join(configDir, configFileExt)

	if writeConfig {
		if err := writeConfigFile(configPath, a.config); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	}

	_, closeStores, err := openService(cmd.Context(), a.config, a.logger)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	closeStores()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config:       %s\n", configPath)
	fmt.Fprintf(out, "record store: %s (table %s)\n", a.config.RecordStore, a.config.Table)
	fmt.Fprintf(out, "blob store:   %s\n", a.config.BlobStore)
	fmt.Fprintln(out, "coinshelf initialized successfully")
	return nil
}
