package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/kozaktomas/koya-pay/internal/workflow"
	"github.com/spf13/cobra"
)

var locationCmd = &cobra.Command{
	Use:   "location <photo-id> <location>",
	Short: "Update the location of a matched photo",
	Long: `Update the location stored for a matched photo.

The photo id is the "id" column printed by "koya match".

Example:
  koya location 17 Lagos`,
	Args: cobra.ExactArgs(2),
	RunE: runLocation,
}

func init() {
	rootCmd.AddCommand(locationCmd)
}

func runLocation(cmd *cobra.Command, args []string) error {
	id := koya.MatchID(args[0])

	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	_, client, err := newClient(logger)
	if err != nil {
		return err
	}

	var message string
	update := func(ctx context.Context, id koya.MatchID, location string) error {
		resp, err := client.UpdateLocation(ctx, id, location)
		if err != nil {
			return err
		}
		message = resp.Message
		return nil
	}

	edit := workflow.NewLocationEdit(id, update, logger)
	defer edit.Cancel()

	edit.SetDraft(args[1])
	if err := edit.Submit(cmd.Context()); err != nil {
		if msg := edit.State().Error; msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}

	if message == "" {
		message = "location updated"
	}
	fmt.Printf("%s: %s\n", id, message)
	return nil
}
