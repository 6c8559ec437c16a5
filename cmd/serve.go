package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/koya-pay/internal/camera"
	"github.com/kozaktomas/koya-pay/internal/config"
	"github.com/kozaktomas/koya-pay/internal/shell"
	"github.com/kozaktomas/koya-pay/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web shell",
	Long: `Start the Koya Pay web shell.

The shell exposes the upload, database, camera, face match and location
update screens as a JSON API under /api/v1 for a browser frontend. Exactly
one screen is mounted at a time; navigating away tears it down.

Set CAMERA_DIR to a folder a webcam tool keeps writing snapshots into to
enable the camera screen.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default WEB_PORT or 8080)")
	serveCmd.Flags().String("host", "", "Host to bind to (default WEB_HOST or 127.0.0.1)")
	serveCmd.Flags().String("camera-dir", "", "Snapshot folder for the camera screen (default CAMERA_DIR)")
}

// newServeLogger returns a production logger, or a development one with --verbose.
func newServeLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// resolveServeOptions applies command line flags over the environment configuration.
func resolveServeOptions(cmd *cobra.Command, cfg *config.Config) {
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}
	if dir := mustGetString(cmd, "camera-dir"); dir != "" {
		cfg.Camera.Dir = dir
	}
}

// cameraFactory builds the camera screen workflow from the camera configuration.
func cameraFactory(cfg config.CameraConfig, logger *zap.Logger) shell.CameraFactory {
	return func() *camera.Camera {
		var source camera.VideoSource = camera.NoSource{}
		if cfg.Dir != "" {
			source = camera.NewDirSource(cfg.Dir, logger)
		}
		return camera.New(source, camera.NewPNGCapture(cfg.Width, cfg.Height), logger)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newServeLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, client, err := newClient(logger)
	if err != nil {
		return err
	}
	resolveServeOptions(cmd, cfg)

	if cfg.Camera.Dir == "" {
		logger.Info("no CAMERA_DIR set, camera screen will report no device")
	}

	sh := shell.New(client, cameraFactory(cfg.Camera, logger), logger)
	if err := sh.Navigate(cmd.Context(), shell.PathHome); err != nil {
		return fmt.Errorf("mounting home screen: %w", err)
	}

	server := web.NewServer(cfg, sh, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Koya Pay shell on http://%s:%d (service %s)\n", cfg.Web.Host, cfg.Web.Port, cfg.Koya.URL)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
