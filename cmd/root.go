package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kozaktomas/koya-pay/internal/config"
	"github.com/kozaktomas/koya-pay/internal/koya"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	captureDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "koya",
	Short: "A client for the Koya Pay face matching service",
	Long: `Koya is a client for the Koya Pay face matching service.

It uploads photos for recognition, browses and extends the stored database
entries, captures still images from a camera, matches faces and updates the
location of a matched photo. Matching and storage happen on the service; the
client only drives the workflows. Use "koya serve" for the local web shell.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save API responses for testing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and workflow transitions")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// newLogger returns the logger for CLI commands. User-facing output goes to
// stdout; the logger is silent unless --verbose is set.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newClient loads the configuration and connects a Koya Pay client.
func newClient(logger *zap.Logger) (*config.Config, *koya.Koya, error) {
	cfg := config.Load()
	if captureDir != "" {
		cfg.Koya.CaptureDir = captureDir
	}

	client, err := koya.NewKoya(&cfg.Koya, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Koya Pay client: %w", err)
	}
	return cfg, client, nil
}
