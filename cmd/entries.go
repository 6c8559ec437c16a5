package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kozaktomas/koya-pay/internal/workflow"
	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Browse and extend the database entries",
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored database entries",
	Args:  cobra.NoArgs,
	RunE:  runEntriesList,
}

var entriesAddCmd = &cobra.Command{
	Use:   "add <entry>",
	Short: "Append an entry and show the reloaded list",
	Long: `Append an entry to the database and reload the list from the service.

Example:
  koya entries add "Adeola Okoro"`,
	Args: cobra.ExactArgs(1),
	RunE: runEntriesAdd,
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesAddCmd)

	entriesListCmd.Flags().Bool("json", false, "Output as JSON")
}

func printEntries(entries []string) {
	if len(entries) == 0 {
		fmt.Println("No entries.")
		return
	}
	for i, e := range entries {
		fmt.Printf("%3d. %s\n", i+1, e)
	}
}

func runEntriesList(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	_, client, err := newClient(logger)
	if err != nil {
		return err
	}

	listing := workflow.NewListing(client, logger)
	defer listing.Dispose()

	if err := listing.Load(cmd.Context()); err != nil {
		return fmt.Errorf("%s", listing.State().Error)
	}

	entries := listing.State().Entries
	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	printEntries(entries)
	return nil
}

func runEntriesAdd(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	_, client, err := newClient(logger)
	if err != nil {
		return err
	}

	listing := workflow.NewListing(client, logger)
	defer listing.Dispose()

	listing.SetPending(args[0])
	err = listing.Append(cmd.Context())
	st := listing.State()
	if err != nil {
		if st.Error != "" {
			return fmt.Errorf("%s", st.Error)
		}
		return err
	}

	fmt.Printf("Added %q\n\n", args[0])
	printEntries(st.Entries)
	return nil
}
