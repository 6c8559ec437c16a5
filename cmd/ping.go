package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the Koya Pay service is reachable",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	cfg, client, err := newClient(logger)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := client.Health(cmd.Context()); err != nil {
		return fmt.Errorf("service at %s is not reachable: %w", cfg.Koya.URL, err)
	}
	fmt.Printf("%s is up (%s)\n", cfg.Koya.URL, time.Since(start).Round(time.Millisecond))
	return nil
}
