package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coinshelf/internal/shell"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the collection and its total value",
		Args:  cobra.NoArgs,
		RunE:  a.runList,
	}
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	svc, closeStores, err := openService(cmd.Context(), a.config, a.logger)
	if err != nil {
		return err
	}
	defer closeStores()

	listing, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list collection: %w", err)
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}
	if listing.Empty() {
		fmt.Fprintln(out, "No coins found.")
		return nil
	}
	shell.WriteListing(out, listing)
	return nil
}
